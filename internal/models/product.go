package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image" json:"image"`
	IsFeatured  bool               `bson:"is_featured" json:"isFeatured"`
	Discount    float64            `bson:"discount" json:"discount"` // 0-100
	Rating      float64            `bson:"rating" json:"rating"`     // 0-5, moyenne des avis
	Reviews     []Review           `bson:"reviews" json:"reviews"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Review est embarqué dans le document produit : un seul avis par utilisateur
type Review struct {
	User    primitive.ObjectID `bson:"user" json:"userId"`
	Rating  float64            `bson:"rating" json:"rating"` // 1-5
	Comment string             `bson:"comment,omitempty" json:"comment,omitempty"`
}

// AverageRating recalcule la note moyenne à partir des avis embarqués
func (p Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	var total float64
	for _, r := range p.Reviews {
		total += r.Rating
	}
	return RoundRating(total / float64(len(p.Reviews)))
}

// RoundRating arrondit une note à 2 décimales pour l'affichage
func RoundRating(rating float64) float64 {
	return math.Round(rating*100) / 100
}

// FeaturedPrice applique la remise vitrine de 10% (jamais persistée)
func (p Product) FeaturedPrice() float64 {
	return math.Round(p.Price*0.9*100) / 100
}
