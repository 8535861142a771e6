package dto

import (
	"poolhub/internal/domain/ingestion"
)

func ToReadingDTO(r *ingestion.SensorReading) *ReadingDTO {
	if r == nil {
		return nil
	}
	return &ReadingDTO{
		PoolID:     r.PoolID(),
		DeviceID:   r.DeviceID(),
		Metric:     r.Metric(),
		Value:      r.Value(),
		Unit:       r.Unit(),
		RecordedAt: r.RecordedAt(),
		Source:     r.Source(),
		Quality:    r.Quality(),
	}
}

func ToReadingDTOList(readings []*ingestion.SensorReading) []*ReadingDTO {
	dtos := make([]*ReadingDTO, 0, len(readings))
	for _, r := range readings {
		if r != nil {
			dtos = append(dtos, ToReadingDTO(r))
		}
	}
	return dtos
}

func ToFailureDTO(f *ingestion.Failure) *FailureDTO {
	if f == nil {
		return nil
	}
	return &FailureDTO{
		ID:            f.SID(),
		Provider:      f.Provider(),
		Status:        f.Status().String(),
		Attempts:      f.Attempts(),
		LastError:     f.LastError(),
		NextAttemptAt: f.NextAttemptAt(),
		ResolvedAt:    f.ResolvedAt(),
		CreatedAt:     f.CreatedAt(),
		UpdatedAt:     f.UpdatedAt(),
	}
}

func ToFailureDTOList(failures []*ingestion.Failure) []*FailureDTO {
	dtos := make([]*FailureDTO, 0, len(failures))
	for _, f := range failures {
		if f != nil {
			dtos = append(dtos, ToFailureDTO(f))
		}
	}
	return dtos
}
