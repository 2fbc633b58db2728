package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"palika_profile/models"
	"palika_profile/utils"
)

// TransportRepo stores public transport routes as MongoDB documents with
// their stops embedded, the same way the profile's other open-ended route
// catalogs are held: a whole route reads and writes in one round trip.
type TransportRepo struct {
	collection *mongo.Collection
}

func NewTransportRepo(db *mongo.Database) *TransportRepo {
	return &TransportRepo{collection: db.Collection("transport_routes")}
}

var transportSortFields = map[string]string{
	"name":    "name",
	"vehicle": "vehicle_type",
}

// List filters, sorts and paginates route documents. The table view omits
// stops and description; map views carry the full stop list.
func (r *TransportRepo) List(ctx context.Context, params models.RegistryListParams) ([]models.TransportRoute, models.ListMeta, error) {
	params.Normalize()

	filter := bson.M{}
	if params.Search != "" {
		regex := bson.M{"$regex": params.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"description": regex},
			{"start_point": regex},
			{"end_point": regex},
		}
	}
	if params.WardNumber != nil {
		filter["ward_numbers"] = *params.WardNumber
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("counting transport routes: %v", err)
	}

	sortField, ok := transportSortFields[params.SortBy]
	if !ok {
		sortField = "name"
	}
	direction := 1
	if params.SortDesc {
		direction = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: direction}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))
	if params.ViewType == models.ViewTable {
		opts.SetProjection(bson.M{"stops": 0, "description": 0})
	} else if params.ViewType == models.ViewGrid {
		opts.SetProjection(bson.M{"stops": 0})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("listing transport routes: %v", err)
	}
	defer cursor.Close(ctx)

	var routes []models.TransportRoute
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("decoding transport routes: %v", err)
	}
	return routes, models.NewListMeta(int(total), params.Page, params.PageSize), nil
}

func (r *TransportRepo) GetByID(ctx context.Context, id string) (models.TransportRoute, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *TransportRepo) GetBySlug(ctx context.Context, routeSlug string) (models.TransportRoute, error) {
	return r.getOne(ctx, bson.M{"slug": routeSlug})
}

func (r *TransportRepo) getOne(ctx context.Context, filter bson.M) (models.TransportRoute, error) {
	var route models.TransportRoute
	err := r.collection.FindOne(ctx, filter).Decode(&route)
	if err == mongo.ErrNoDocuments {
		return models.TransportRoute{}, ErrNotFound
	}
	if err != nil {
		return models.TransportRoute{}, fmt.Errorf("reading transport route: %v", err)
	}
	return route, nil
}

// Create assigns an id and a collision-free slug, then inserts. The slug
// index on the collection is unique, so a concurrent duplicate surfaces as
// ErrConflict.
func (r *TransportRepo) Create(ctx context.Context, route models.TransportRoute) (models.TransportRoute, error) {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	uniqueSlug, err := r.ensureUniqueSlug(ctx, route.Name, route.ID)
	if err != nil {
		return models.TransportRoute{}, err
	}
	route.Slug = uniqueSlug

	if _, err := r.collection.InsertOne(ctx, route); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.TransportRoute{}, ErrConflict
		}
		return models.TransportRoute{}, fmt.Errorf("inserting transport route: %v", err)
	}
	return route, nil
}

func (r *TransportRepo) Update(ctx context.Context, route models.TransportRoute) (models.TransportRoute, error) {
	existing, err := r.GetByID(ctx, route.ID)
	if err != nil {
		return models.TransportRoute{}, err
	}

	route.Slug = existing.Slug
	if route.Name != existing.Name {
		uniqueSlug, err := r.ensureUniqueSlug(ctx, route.Name, route.ID)
		if err != nil {
			return models.TransportRoute{}, err
		}
		route.Slug = uniqueSlug
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": route.ID}, route)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.TransportRoute{}, ErrConflict
		}
		return models.TransportRoute{}, fmt.Errorf("updating transport route: %v", err)
	}
	if result.MatchedCount == 0 {
		return models.TransportRoute{}, ErrNotFound
	}
	return route, nil
}

func (r *TransportRepo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting transport route: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// StopHit is one stop within radius of a query point.
type StopHit struct {
	RouteID    string               `json:"route_id"`
	RouteName  string               `json:"route_name"`
	RouteSlug  string               `json:"route_slug"`
	Stop       models.TransportStop `json:"stop"`
	DistanceKm float64              `json:"distance_km"`
}

// NearbyStops scans route stops and returns those within radiusKm of the
// query point, nearest first. The catalog is municipality-sized, so a full
// scan with haversine per stop is fine.
func (r *TransportRepo) NearbyStops(ctx context.Context, lat, lng, radiusKm float64) ([]StopHit, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("scanning transport routes: %v", err)
	}
	defer cursor.Close(ctx)

	var hits []StopHit
	for cursor.Next(ctx) {
		var route models.TransportRoute
		if err := cursor.Decode(&route); err != nil {
			return nil, fmt.Errorf("decoding transport route: %v", err)
		}
		for _, stop := range route.Stops {
			distance := utils.CalculateDistance(lat, lng, stop.Lat, stop.Lng)
			if distance <= radiusKm {
				hits = append(hits, StopHit{
					RouteID:    route.ID,
					RouteName:  route.Name,
					RouteSlug:  route.Slug,
					Stop:       stop,
					DistanceKm: distance,
				})
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("scanning transport routes: %v", err)
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].DistanceKm < hits[j].DistanceKm })
	return hits, nil
}

// Slugs returns every route slug for sitemap generation.
func (r *TransportRepo) Slugs(ctx context.Context) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"slug": 1}).SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slugs []string
	for cursor.Next(ctx) {
		var doc struct {
			Slug string `bson:"slug"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		slugs = append(slugs, doc.Slug)
	}
	return slugs, cursor.Err()
}

func (r *TransportRepo) ensureUniqueSlug(ctx context.Context, name, excludeID string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "route"
	}
	candidate := base
	for i := 2; ; i++ {
		count, err := r.collection.CountDocuments(ctx, bson.M{
			"slug": candidate,
			"_id":  bson.M{"$ne": excludeID},
		})
		if err != nil {
			return "", fmt.Errorf("checking slug uniqueness: %v", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
