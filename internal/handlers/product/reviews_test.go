package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/models"
)

func TestUpsertReviewAddsNew(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()

	reviews := upsertReview(nil, u1, 4, "bien")
	assert.Len(t, reviews, 1)

	reviews = upsertReview(reviews, u2, 5, "excellent")
	assert.Len(t, reviews, 2)
}

func TestUpsertReviewReplacesExisting(t *testing.T) {
	u1 := primitive.NewObjectID()

	reviews := []models.Review{{User: u1, Rating: 2, Comment: "bof"}}
	reviews = upsertReview(reviews, u1, 5, "finalement très bien")

	// Un seul avis par utilisateur
	assert.Len(t, reviews, 1)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, "finalement très bien", reviews[0].Comment)
}

func TestUpsertReviewThenAverage(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()

	p := models.Product{}
	p.Reviews = upsertReview(p.Reviews, u1, 3, "")
	p.Reviews = upsertReview(p.Reviews, u2, 4, "")
	assert.Equal(t, 3.5, p.AverageRating())

	// u1 change d'avis : la moyenne se recalcule sans dupliquer
	p.Reviews = upsertReview(p.Reviews, u1, 5, "")
	assert.Equal(t, 4.5, p.AverageRating())
}
