package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

type categoryDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

func (d categoryDoc) toDomain() *domain.Category {
	return &domain.Category{ID: d.ID, Name: d.Name}
}

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	products *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		db:       db,
		col:      db.Collection(collectionCategories),
		products: db.Collection(collectionProducts),
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionCategories)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, categoryDoc{ID: id, Name: c.Name}); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d categoryDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return d.toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context, f ports.CategoryFilter) ([]*domain.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = containsFold(f.Search)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, findPage(f.Page).SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer cur.Close(ctx)

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode categories: %w", err)
	}
	out := make([]*domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"name": c.Name}})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

// Delete removes the category, then its products.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	if _, err := r.products.DeleteMany(ctx, bson.M{"category_id": id}); err != nil {
		return fmt.Errorf("delete products of category %d: %w", id, err)
	}
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
