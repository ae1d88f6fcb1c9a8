package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

type productDoc struct {
	ID                int64     `bson:"_id"`
	Name              string    `bson:"name"`
	Quantity          int       `bson:"quantity"`
	ArrivalDate       time.Time `bson:"arrival_date"`
	ExpiryDate        time.Time `bson:"expiry_date"`
	IsWriteOffAllowed bool      `bson:"is_write_off_allowed"`
	CategoryID        int64     `bson:"category_id"`

	// Populated by the $lookup stage on reads.
	Category []categoryDoc `bson:"category,omitempty"`
}

func newProductDoc(p *domain.Product) productDoc {
	return productDoc{
		ID:                p.ID,
		Name:              p.Name,
		Quantity:          p.Quantity,
		ArrivalDate:       p.ArrivalDate.UTC(),
		ExpiryDate:        p.ExpiryDate.UTC(),
		IsWriteOffAllowed: p.IsWriteOffAllowed,
		CategoryID:        p.CategoryID,
	}
}

func (d productDoc) toDomain() *domain.Product {
	p := &domain.Product{
		ID:                d.ID,
		Name:              d.Name,
		Quantity:          d.Quantity,
		ArrivalDate:       d.ArrivalDate.UTC(),
		ExpiryDate:        d.ExpiryDate.UTC(),
		IsWriteOffAllowed: d.IsWriteOffAllowed,
		CategoryID:        d.CategoryID,
	}
	if len(d.Category) > 0 {
		p.Category = d.Category[0].toDomain()
	}
	return p
}

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{db: db, col: db.Collection(collectionProducts)}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionProducts)
	if err != nil {
		return err
	}
	doc := newProductDoc(p)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
		lookupCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return docs[0].toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = containsFold(f.Search)
	}
	if f.CategoryID > 0 {
		filter["category_id"] = f.CategoryID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	dir := -1
	if f.Sort == domain.SortAsc {
		dir = 1
	}
	docs, err := r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "arrival_date", Value: dir}, {Key: "_id", Value: dir}}}},
		{{Key: "$skip", Value: int64(f.Page.Offset())}},
		{{Key: "$limit", Value: int64(f.Page.Size)}},
		lookupCategory,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	out := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newProductDoc(p)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, doc)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return n > 0, nil
}

var lookupCategory = bson.D{{Key: "$lookup", Value: bson.M{
	"from":         collectionCategories,
	"localField":   "category_id",
	"foreignField": "_id",
	"as":           "category",
}}}

func (r *ProductRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]productDoc, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
