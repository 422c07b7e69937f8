package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

const collectionRequests = "requests"

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

type mongoRequest struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	FullName      string              `bson:"full_name"`
	Email         string              `bson:"email"`
	MobileNumber  string              `bson:"mobile_number"`
	SchoolName    string              `bson:"school_name"`
	Message       string              `bson:"message,omitempty"`
	ClassStandard string              `bson:"class_standard"`
	Date          time.Time           `bson:"date"`
	CreatedBy     *primitive.ObjectID `bson:"created_by,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"`
}

func (m *mongoRequest) toDomain() *domain.Request {
	r := &domain.Request{
		ID:            m.ID.Hex(),
		FullName:      m.FullName,
		Email:         m.Email,
		MobileNumber:  m.MobileNumber,
		SchoolName:    m.SchoolName,
		Message:       m.Message,
		ClassStandard: domain.ClassStandard(m.ClassStandard),
		Date:          m.Date.UTC(),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if m.CreatedBy != nil {
		r.CreatedBy = m.CreatedBy.Hex()
	}
	return r
}

// Create inserts a new request and sets its ID.
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	doc := mongoRequest{
		ID:            primitive.NewObjectID(),
		FullName:      req.FullName,
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		SchoolName:    req.SchoolName,
		Message:       req.Message,
		ClassStandard: string(req.ClassStandard),
		Date:          req.Date,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
	if req.CreatedBy != "" {
		oid, err := objectID(req.CreatedBy)
		if err != nil {
			return err
		}
		doc.CreatedBy = &oid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	req.ID = doc.ID.Hex()
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return m.toDomain(), nil
}

func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// List returns the requests matching filter, newest date first.
func (r *RequestRepository) List(ctx context.Context, filter ports.RequestFilter) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, buildRequestFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRequest
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	out := make([]*domain.Request, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func buildRequestFilter(f ports.RequestFilter) bson.M {
	q := bson.M{}

	dateRange := bson.M{}
	if !f.DateFrom.IsZero() {
		dateRange["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		dateRange["$lt"] = f.DateTo
	}
	if len(dateRange) > 0 {
		q["date"] = dateRange
	}

	if f.ClassStandard != "" {
		q["class_standard"] = string(f.ClassStandard)
	}
	return q
}

// EnsureIndexes creates the indexes used by the filter endpoint.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "class_standard", Value: 1}, {Key: "date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
