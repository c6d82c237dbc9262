package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
)

// QdrantStore implements port.Retriever and port.Indexer against a Qdrant
// collection. Alternative to the pgvector backend, selected via config.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	ai          port.AIProvider
}

// NewQdrantStore connects to Qdrant at the given gRPC address.
func NewQdrantStore(addr, collection string, ai port.AIProvider) (*QdrantStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", addr, err)
	}
	return &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		ai:          ai,
	}, nil
}

// Close closes the underlying gRPC connection.
func (q *QdrantStore) Close() error {
	return q.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (q *QdrantStore) EnsureCollection(ctx context.Context, dims int) error {
	list, err := q.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == q.collection {
			return nil
		}
	}

	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collection, err)
	}
	return nil
}

// Search embeds the query and runs a k-NN search with payloads enabled.
func (q *QdrantStore) Search(ctx context.Context, query string, k int) ([]domain.ScoredListing, error) {
	vec, err := q.ai.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vec,
		Limit:          uint64(k),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	results := make([]domain.ScoredListing, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		results[i] = domain.ScoredListing{
			Listing:    listingFromPayload(r.GetPayload()),
			Similarity: float64(r.GetScore()),
		}
	}
	return results, nil
}

// Ready verifies the collection exists and holds at least one point.
func (q *QdrantStore) Ready(ctx context.Context) error {
	n, err := q.Count(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrIndexUnavailable, err)
	}
	if n == 0 {
		return port.ErrIndexEmpty
	}
	return nil
}

// Count reports how many points the collection holds.
func (q *QdrantStore) Count(ctx context.Context) (int, error) {
	resp, err := q.points.Count(ctx, &pb.CountPoints{CollectionName: q.collection})
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Upsert stores listings with their embeddings. Point IDs are derived
// deterministically from the slug so re-ingestion overwrites in place.
func (q *QdrantStore) Upsert(ctx context.Context, listings []domain.Listing, vectors [][]float32) error {
	if len(listings) == 0 {
		return nil
	}
	if len(listings) != len(vectors) {
		return fmt.Errorf("upsert listings: %d listings but %d vectors", len(listings), len(vectors))
	}

	points := make([]*pb.PointStruct, len(listings))
	for i, l := range listings {
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(l.Slug)).String()
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vectors[i]}}},
			Payload: payloadFromListing(l),
		}
	}

	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

func payloadFromListing(l domain.Listing) map[string]*pb.Value {
	p := map[string]*pb.Value{
		"slug":             strValue(l.Slug),
		"project_name":     strValue(l.ProjectName),
		"project_type":     strValue(l.ProjectType),
		"project_category": strValue(l.ProjectCategory),
		"status":           strValue(l.Status),
		"bhk":              strValue(l.BHK),
		"furnished_type":   strValue(l.FurnishedType),
		"possession_date":  strValue(l.PossessionDate),
		"city":             strValue(l.City),
		"locality":         strValue(l.Locality),
		"address":          strValue(l.Address),
		"amenities":        strValue(l.Amenities),
		"content":          strValue(l.Content),
		"lift":             {Kind: &pb.Value_BoolValue{BoolValue: l.Lift}},
	}
	for k, v := range map[string]*float64{
		"price":       l.Price,
		"price_in_cr": l.PriceInCr,
		"carpet_area": l.CarpetArea,
		"bathrooms":   l.Bathrooms,
		"balcony":     l.Balcony,
	} {
		if v != nil {
			p[k] = &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: *v}}
		}
	}
	return p
}

func listingFromPayload(p map[string]*pb.Value) domain.Listing {
	l := domain.Listing{
		Slug:            p["slug"].GetStringValue(),
		ProjectName:     p["project_name"].GetStringValue(),
		ProjectType:     p["project_type"].GetStringValue(),
		ProjectCategory: p["project_category"].GetStringValue(),
		Status:          p["status"].GetStringValue(),
		BHK:             p["bhk"].GetStringValue(),
		FurnishedType:   p["furnished_type"].GetStringValue(),
		PossessionDate:  p["possession_date"].GetStringValue(),
		City:            p["city"].GetStringValue(),
		Locality:        p["locality"].GetStringValue(),
		Address:         p["address"].GetStringValue(),
		Amenities:       p["amenities"].GetStringValue(),
		Content:         p["content"].GetStringValue(),
		Lift:            p["lift"].GetBoolValue(),
	}
	l.Price = doublePtr(p, "price")
	l.PriceInCr = doublePtr(p, "price_in_cr")
	l.CarpetArea = doublePtr(p, "carpet_area")
	l.Bathrooms = doublePtr(p, "bathrooms")
	l.Balcony = doublePtr(p, "balcony")
	return l
}

func strValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func doublePtr(p map[string]*pb.Value, key string) *float64 {
	v, ok := p[key]
	if !ok {
		return nil
	}
	if _, isDouble := v.GetKind().(*pb.Value_DoubleValue); !isDouble {
		return nil
	}
	f := v.GetDoubleValue()
	return &f
}
