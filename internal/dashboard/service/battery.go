package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/domain"
	"github.com/aussiebroadwan/batterydash/pkg/slogx"
)

// Log event names.
const (
	EventBatteryStatusFetched = "BatteryStatusFetched"
	EventTelemetryFetched     = "TelemetryFetched"
)

// BatteryAPI is the upstream battery monitoring provider.
type BatteryAPI interface {
	GetStatus(ctx context.Context, deviceID string) ([]byte, error)
	GetTelemetry(ctx context.Context, deviceID string, offsetMinutes int) ([]byte, error)
}

// BatteryService proxies read-only battery data from the provider.
type BatteryService struct {
	API BatteryAPI
}

// GetStatus returns the provider's status document unchanged.
func (s *BatteryService) GetStatus(ctx context.Context, deviceID string) (json.RawMessage, error) {
	l := slogx.FromContext(ctx).With(slog.String("device", slogx.Mask(deviceID)))

	body, err := s.API.GetStatus(ctx, deviceID)
	if err != nil {
		l.Error("battery status fetch failed", slog.Any("err", err))
		return nil, fmt.Errorf("get battery status: %w", err)
	}

	l.Info("battery status fetched", slog.String("event", EventBatteryStatusFetched))
	return json.RawMessage(body), nil
}

// GetTelemetry returns the battery and grid power series for the window
// ending offsetMinutes ago.
func (s *BatteryService) GetTelemetry(
	ctx context.Context,
	deviceID string,
	offsetMinutes int,
) (domain.TelemetryResponse, error) {
	l := slogx.FromContext(ctx).With(
		slog.String("device", slogx.Mask(deviceID)),
		slog.Int("offset_minutes", offsetMinutes),
	)

	body, err := s.API.GetTelemetry(ctx, deviceID, offsetMinutes)
	if err != nil {
		l.Error("telemetry fetch failed", slog.Any("err", err))
		return domain.TelemetryResponse{}, fmt.Errorf("get telemetry: %w", err)
	}

	resp, err := FilterTelemetry(body)
	if err != nil {
		l.Error("telemetry decode failed", slog.Any("err", err))
		return domain.TelemetryResponse{}, fmt.Errorf("get telemetry: %w", err)
	}

	l.Info("telemetry fetched",
		slog.String("event", EventTelemetryFetched),
		slog.Int("series", len(resp.Series)),
	)
	return resp, nil
}

// FilterTelemetry decodes a provider telemetry document and keeps only the
// dashboard series, in their original order. Field names match
// case-insensitively and sample data is left as received.
func FilterTelemetry(body []byte) (domain.TelemetryResponse, error) {
	var raw struct {
		Series []domain.Series `json:"series"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.TelemetryResponse{}, fmt.Errorf("decode telemetry: %w", err)
	}

	out := domain.TelemetryResponse{Series: make([]domain.Series, 0, 2)}
	for _, s := range raw.Series {
		if !domain.IsDashboardSeries(s.Name) {
			continue
		}
		out.Series = append(out.Series, s)
	}
	return out, nil
}
