package migrate

import (
	"errors"
	"testing"
)

func TestRun_Validation(t *testing.T) {
	tests := []struct {
		name      string
		dsn       string
		direction string
		wantErr   error
	}{
		{name: "empty dsn", dsn: "", direction: DirectionUp, wantErr: ErrEmptyDSN},
		{name: "empty direction", dsn: "postgres://localhost/medibook", direction: "", wantErr: ErrInvalidDirection},
		{name: "upper case direction", dsn: "postgres://localhost/medibook", direction: "UP", wantErr: ErrInvalidDirection},
		{name: "sideways", dsn: "postgres://localhost/medibook", direction: "left", wantErr: ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := Run(tt.dsn, tt.direction)

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
