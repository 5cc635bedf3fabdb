package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAverageRating(t *testing.T) {
	p := Product{}
	if got := p.AverageRating(); got != 0 {
		t.Errorf("AverageRating() sans avis = %v, want 0", got)
	}

	p.Reviews = []Review{
		{User: primitive.NewObjectID(), Rating: 4},
		{User: primitive.NewObjectID(), Rating: 5},
		{User: primitive.NewObjectID(), Rating: 3},
	}
	if got := p.AverageRating(); got != 4 {
		t.Errorf("AverageRating() = %v, want 4", got)
	}

	// Arrondi à 2 décimales : (5+4)/2 = 4.5, (5+4+4)/3 = 4.33
	p.Reviews = []Review{
		{User: primitive.NewObjectID(), Rating: 5},
		{User: primitive.NewObjectID(), Rating: 4},
		{User: primitive.NewObjectID(), Rating: 4},
	}
	if got := p.AverageRating(); got != 4.33 {
		t.Errorf("AverageRating() = %v, want 4.33", got)
	}
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.333333, 4.33},
		{4.336, 4.34},
		{0, 0},
		{5, 5},
	}
	for _, tt := range tests {
		if got := RoundRating(tt.in); got != tt.want {
			t.Errorf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFeaturedPrice(t *testing.T) {
	p := Product{Price: 100}
	if got := p.FeaturedPrice(); got != 90 {
		t.Errorf("FeaturedPrice() sur 100 = %v, want 90", got)
	}

	p = Product{Price: 19.99}
	if got := p.FeaturedPrice(); got != 17.99 {
		t.Errorf("FeaturedPrice() sur 19.99 = %v, want 17.99", got)
	}
}
