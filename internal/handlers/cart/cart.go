package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// Ligne du panier enrichie avec les données produit du moment
type cartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// ================== HELPERS ==================

// addOrIncrement ajoute un produit au panier, ou incrémente sa quantité
// s'il y est déjà
func addOrIncrement(items []models.CartItem, productID primitive.ObjectID, quantity int) []models.CartItem {
	for i := range items {
		if items[i].Product == productID {
			items[i].Quantity += quantity
			return items
		}
	}
	return append(items, models.CartItem{Product: productID, Quantity: quantity})
}

// setQuantity fixe la quantité d'un produit ; 0 le retire du panier.
// Le booléen indique si le produit était présent.
func setQuantity(items []models.CartItem, productID primitive.ObjectID, quantity int) ([]models.CartItem, bool) {
	for i := range items {
		if items[i].Product == productID {
			if quantity == 0 {
				return append(items[:i], items[i+1:]...), true
			}
			items[i].Quantity = quantity
			return items, true
		}
	}
	return items, false
}

// removeItem retire un produit du panier
func removeItem(items []models.CartItem, productID primitive.ObjectID) []models.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.Product != productID {
			out = append(out, it)
		}
	}
	return out
}

// saveCart persiste le panier avec un contrôle de version pour éviter
// qu'une requête concurrente n'écrase les modifications d'une autre
func saveCart(ctx context.Context, user *models.User, items []models.CartItem) error {
	res, err := database.Users().UpdateOne(ctx,
		bson.M{"_id": user.ID, "cart_version": user.CartVersion},
		bson.M{
			"$set": bson.M{
				"cart_items": items,
				"updated_at": time.Now(),
			},
			"$inc": bson.M{"cart_version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errCartConflict
	}
	return nil
}

var errCartConflict = &cartConflictError{}

type cartConflictError struct{}

func (e *cartConflictError) Error() string {
	return "le panier a été modifié par une autre requête"
}

// loadUser relit l'utilisateur pour avoir la version courante du panier
func loadUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// enrichCart joint les données produit actuelles aux lignes du panier.
// Les produits supprimés du catalogue disparaissent silencieusement.
func enrichCart(ctx context.Context, items []models.CartItem) ([]cartLine, error) {
	if len(items) == 0 {
		return []cartLine{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Product)
	}

	cursor, err := database.Products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := map[primitive.ObjectID]models.Product{}
	for cursor.Next(ctx) {
		var p models.Product
		if cursor.Decode(&p) == nil {
			products[p.ID] = p
		}
	}

	lines := []cartLine{}
	for _, it := range items {
		p, ok := products[it.Product]
		if !ok {
			continue
		}
		lines = append(lines, cartLine{
			ProductID: p.ID.Hex(),
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Quantity:  it.Quantity,
		})
	}
	return lines, nil
}

// ================== HANDLERS ==================

// 🛒 GET /api/v1/carts
func GetCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lines, err := enrichCart(ctx, user.CartItems)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// 🛒 POST /api/v1/carts
func AddToCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Le produit doit exister dans le catalogue
	count, err := database.Products().CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// Retry en cas de modification concurrente du panier
	for attempt := 0; attempt < 3; attempt++ {
		items := addOrIncrement(append([]models.CartItem{}, user.CartItems...), productID, input.Quantity)
		err = saveCart(ctx, &user, items)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté au panier", "cartItems": items})
			return
		}
		if err != errCartConflict {
			break
		}
		fresh, loadErr := loadUser(ctx, user.ID)
		if loadErr != nil {
			err = loadErr
			break
		}
		user = *fresh
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// 🛒 PUT /api/v1/carts/:id
func UpdateQuantity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity == nil || *input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for attempt := 0; attempt < 3; attempt++ {
		items, found := setQuantity(append([]models.CartItem{}, user.CartItems...), productID, *input.Quantity)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent du panier"})
			return
		}
		err = saveCart(ctx, &user, items)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"cartItems": items})
			return
		}
		if err != errCartConflict {
			break
		}
		fresh, loadErr := loadUser(ctx, user.ID)
		if loadErr != nil {
			err = loadErr
			break
		}
		user = *fresh
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// 🛒 DELETE /api/v1/carts/:id
func RemoveFromCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for attempt := 0; attempt < 3; attempt++ {
		items := removeItem(append([]models.CartItem{}, user.CartItems...), productID)
		err = saveCart(ctx, &user, items)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"cartItems": items})
			return
		}
		if err != errCartConflict {
			break
		}
		fresh, loadErr := loadUser(ctx, user.ID)
		if loadErr != nil {
			err = loadErr
			break
		}
		user = *fresh
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// 🛒 DELETE /api/v1/carts
func ClearCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := database.Users().UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set": bson.M{
				"cart_items": []models.CartItem{},
				"updated_at": time.Now(),
			},
			"$inc": bson.M{"cart_version": 1},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
