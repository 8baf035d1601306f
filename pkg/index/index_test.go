package index

import (
	"math"
	"strings"
	"testing"
)

func TestFrameMetaEnd(t *testing.T) {
	m := FrameMeta{Position: 100, Length: 42, Order: 3}
	if got := m.End(); got != 142 {
		t.Errorf("End() = %d, want 142", got)
	}
}

func TestFrameMetaSectionLength(t *testing.T) {
	m := FrameMeta{Position: 0, Length: 512, Order: 0}
	n, err := m.SectionLength()
	if err != nil {
		t.Fatalf("SectionLength() error: %v", err)
	}
	if n != 512 {
		t.Errorf("SectionLength() = %d, want 512", n)
	}
}

func TestFrameMetaSectionLengthOverflow(t *testing.T) {
	m := FrameMeta{Position: 7, Length: math.MaxUint64, Order: 0}
	_, err := m.SectionLength()
	if err == nil {
		t.Fatal("expected error for oversized frame length, got nil")
	}
	if !strings.Contains(err.Error(), "7") {
		t.Errorf("error should name the frame position, got: %v", err)
	}
}

func TestIndexTotalCompressed(t *testing.T) {
	tests := []struct {
		name string
		idx  Index
		want uint64
	}{
		{
			name: "empty",
			idx:  Index{},
			want: 0,
		},
		{
			name: "single frame",
			idx: Index{
				{Position: 0, Length: 100, Order: 0},
			},
			want: 100,
		},
		{
			name: "multiple frames",
			idx: Index{
				{Position: 0, Length: 100, Order: 0},
				{Position: 100, Length: 50, Order: 1},
				{Position: 150, Length: 75, Order: 2},
			},
			want: 225,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.idx.TotalCompressed(); got != tt.want {
				t.Errorf("TotalCompressed() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIndexValidate(t *testing.T) {
	tests := []struct {
		name    string
		idx     Index
		wantErr bool
	}{
		{
			name:    "empty index is valid",
			idx:     Index{},
			wantErr: false,
		},
		{
			name: "single frame at origin",
			idx: Index{
				{Position: 0, Length: 10, Order: 0},
			},
			wantErr: false,
		},
		{
			name: "contiguous frames",
			idx: Index{
				{Position: 0, Length: 10, Order: 0},
				{Position: 10, Length: 20, Order: 1},
				{Position: 30, Length: 5, Order: 2},
			},
			wantErr: false,
		},
		{
			name: "first frame not at origin",
			idx: Index{
				{Position: 4, Length: 10, Order: 0},
			},
			wantErr: true,
		},
		{
			name: "gap between frames",
			idx: Index{
				{Position: 0, Length: 10, Order: 0},
				{Position: 14, Length: 20, Order: 1},
			},
			wantErr: true,
		},
		{
			name: "overlapping frames",
			idx: Index{
				{Position: 0, Length: 10, Order: 0},
				{Position: 6, Length: 20, Order: 1},
			},
			wantErr: true,
		},
		{
			name: "order values not dense",
			idx: Index{
				{Position: 0, Length: 10, Order: 0},
				{Position: 10, Length: 20, Order: 2},
			},
			wantErr: true,
		},
		{
			name: "order values swapped",
			idx: Index{
				{Position: 0, Length: 10, Order: 1},
				{Position: 10, Length: 20, Order: 0},
			},
			wantErr: true,
		},
		{
			name: "empty frame",
			idx: Index{
				{Position: 0, Length: 0, Order: 0},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.idx.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
