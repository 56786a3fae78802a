package geo

import (
	"errors"
	"testing"
)

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{name: "stockholm", lat: 59.3293, lon: 18.0686},
		{name: "lat lower bound", lat: -90, lon: 0},
		{name: "lat upper bound", lat: 90, lon: 0},
		{name: "lon lower bound", lat: 0, lon: -180},
		{name: "lon upper bound", lat: 0, lon: 180},
		{name: "lat too small", lat: -90.0001, lon: 0, wantErr: true},
		{name: "lat too large", lat: 91, lon: 0, wantErr: true},
		{name: "lon too small", lat: 0, lon: -180.5, wantErr: true},
		{name: "lon too large", lat: 0, lon: 181, wantErr: true},
		{name: "both out of range", lat: 200, lon: 400, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord, err := NewCoordinate(tt.lat, tt.lon)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewCoordinate(%v, %v) expected error, got nil", tt.lat, tt.lon)
				}
				var invalidErr *InvalidCoordinateError
				if !errors.As(err, &invalidErr) {
					t.Fatalf("expected *InvalidCoordinateError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			// Values must pass through unchanged.
			if coord.Lat != tt.lat || coord.Lon != tt.lon {
				t.Errorf("NewCoordinate(%v, %v) = %+v", tt.lat, tt.lon, coord)
			}
		})
	}
}

func TestCoordinateKey(t *testing.T) {
	coord, err := NewCoordinate(59.3293, 18.0686)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "59.329300:18.068600"
	if got := coord.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestDefaultPresetsAreValid(t *testing.T) {
	presets := DefaultPresets()
	if len(presets) != 5 {
		t.Fatalf("expected 5 presets, got %d", len(presets))
	}
	for _, p := range presets {
		if _, err := NewCoordinate(p.Lat, p.Lon); err != nil {
			t.Errorf("preset %s has invalid coordinates: %v", p.Name, err)
		}
	}
}
