package cluster

import (
	"testing"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

func TestHorizontalGap(t *testing.T) {
	tests := []struct {
		name string
		a, b entity.BBox
		want int
	}{
		{"b right of a", entity.NewBBox(0, 0, 10, 10), entity.NewBBox(25, 0, 30, 10), 15},
		{"b left of a", entity.NewBBox(50, 0, 60, 10), entity.NewBBox(0, 0, 20, 10), 30},
		{"overlap", entity.NewBBox(0, 0, 30, 10), entity.NewBBox(20, 0, 40, 10), 0},
		{"touching", entity.NewBBox(0, 0, 30, 10), entity.NewBBox(30, 0, 40, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HorizontalGap(tt.a, tt.b); got != tt.want {
				t.Errorf("HorizontalGap() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShouldMergeSymmetric(t *testing.T) {
	cfg := DefaultConfig()
	boxes := []entity.BBox{
		entity.NewBBox(10, 10, 50, 30),
		entity.NewBBox(55, 12, 90, 32),
		entity.NewBBox(10, 60, 60, 90),
		entity.NewBBox(300, 300, 350, 330),
		entity.NewBBox(20, 31, 45, 55),
	}
	for i := range boxes {
		for j := range boxes {
			if ShouldMerge(boxes[i], boxes[j], cfg) != ShouldMerge(boxes[j], boxes[i], cfg) {
				t.Errorf("predicate not symmetric for %d,%d", i, j)
			}
		}
	}
}

func TestShouldMerge(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		a, b entity.BBox
		want bool
	}{
		{"same line within gap", entity.NewBBox(0, 0, 40, 20), entity.NewBBox(120, 0, 160, 20), true},
		{"same line gap too wide", entity.NewBBox(0, 0, 40, 20), entity.NewBBox(121, 0, 160, 20), false},
		{"misaligned rows", entity.NewBBox(0, 0, 40, 20), entity.NewBBox(50, 26, 90, 46), false},
		{"stacked within gap", entity.NewBBox(0, 0, 40, 20), entity.NewBBox(0, 60, 40, 80), true},
		{"stacked gap too wide", entity.NewBBox(0, 0, 40, 20), entity.NewBBox(0, 61, 40, 81), false},
		{"stacked but shifted", entity.NewBBox(0, 0, 40, 20), entity.NewBBox(41, 30, 81, 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldMerge(tt.a, tt.b, cfg); got != tt.want {
				t.Errorf("ShouldMerge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdaptiveConfig(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want Config
	}{
		{"small image keeps defaults", 800, 600, DefaultConfig()},
		{"wide image", 2000, 1000, Config{160, 40, 25, 80}},
		{"tall image", 1000, 3000, Config{80, 120, 75, 40}},
		{"truncates", 1550, 1330, Config{124, 53, 33, 62}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdaptiveConfig(tt.w, tt.h); got != tt.want {
				t.Errorf("AdaptiveConfig(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	got := DefaultConfig().WithOverrides(Config{MaxVerticalGap: 12})
	want := DefaultConfig()
	want.MaxVerticalGap = 12
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
