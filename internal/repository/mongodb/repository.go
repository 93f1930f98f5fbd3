// Package mongodb backs the remote repository contracts with MongoDB.
// Change streams provide the push subscriptions the domain stores reconcile
// against.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

const (
	collInventory = "inventory_items"
	collSales     = "sales"
	collRecipes   = "recipes"
	collProfiles  = "profiles"
	collSettings  = "store_settings"
	collReports   = "reports"
)

// Repository implements every remote contract against a single MongoDB
// database.
type Repository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName, logger: logger}, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// --- inventory_items ---

// ListItems returns every inventory item ordered by name.
func (r *Repository) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	cursor, err := r.coll(collInventory).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, &errs.RemoteError{Op: "inventory list", Err: err}
	}

	var items []models.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, &errs.RemoteError{Op: "inventory decode", Err: err}
	}
	return items, nil
}

// InsertItem stores a new inventory item.
func (r *Repository) InsertItem(ctx context.Context, item models.InventoryItem) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collInventory).InsertOne(ctx, item)
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "inventory insert", Err: err}
	}
	return nil
}

// UpdateItem applies a partial update by identity.
func (r *Repository) UpdateItem(ctx context.Context, id string, patch models.InventoryItemPatch, by string, at time.Time) error {
	set := bson.M{"updated_by": by, "last_updated": at}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Unit != nil {
		set["unit"] = *patch.Unit
	}
	if patch.ReorderLevel != nil {
		set["reorder_level"] = *patch.ReorderLevel
	}

	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(collInventory).UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &errs.ResourceNotFoundError{Resource: "inventory item"}
		}
		return &errs.RemoteError{Op: "inventory update", Err: err}
	}
	return nil
}

// DeleteItem removes an inventory item by identity.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collInventory).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "inventory delete", Err: err}
	}
	return nil
}

// SubscribeItems opens a change stream on inventory_items and adapts it to
// change events. The channel closes when the stream ends or ctx is done.
func (r *Repository) SubscribeItems(ctx context.Context) (<-chan remote.InventoryEvent, error) {
	stream, err := r.watch(ctx, collInventory)
	if err != nil {
		return nil, err
	}

	ch := make(chan remote.InventoryEvent)
	go func() {
		defer close(ch)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			var raw struct {
				OperationType string               `bson:"operationType"`
				FullDocument  models.InventoryItem `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&raw); err != nil {
				r.logger.Warn("malformed inventory change event", zap.Error(err))
				continue
			}

			ev := remote.InventoryEvent{Type: eventType(raw.OperationType), ID: raw.DocumentKey.ID, Item: raw.FullDocument}
			if ev.Type == "" {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// --- sales ---

// ListSales returns every sale, newest first.
func (r *Repository) ListSales(ctx context.Context) ([]models.Sale, error) {
	cursor, err := r.coll(collSales).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, &errs.RemoteError{Op: "sales list", Err: err}
	}

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, &errs.RemoteError{Op: "sales decode", Err: err}
	}
	return sales, nil
}

// InsertSale stores a new sale.
func (r *Repository) InsertSale(ctx context.Context, sale models.Sale) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collSales).InsertOne(ctx, sale)
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "sale insert", Err: err}
	}
	return nil
}

// DeleteSale removes a sale by identity. Used by the compensation path when
// the stock deduction after a recorded sale fails.
func (r *Repository) DeleteSale(ctx context.Context, id string) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collSales).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "sale delete", Err: err}
	}
	return nil
}

// SubscribeSales opens a change stream on the sales collection.
func (r *Repository) SubscribeSales(ctx context.Context) (<-chan remote.SaleEvent, error) {
	stream, err := r.watch(ctx, collSales)
	if err != nil {
		return nil, err
	}

	ch := make(chan remote.SaleEvent)
	go func() {
		defer close(ch)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			var raw struct {
				OperationType string      `bson:"operationType"`
				FullDocument  models.Sale `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&raw); err != nil {
				r.logger.Warn("malformed sale change event", zap.Error(err))
				continue
			}

			ev := remote.SaleEvent{Type: eventType(raw.OperationType), ID: raw.DocumentKey.ID, Sale: raw.FullDocument}
			if ev.Type == "" {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// --- recipes ---

// ListRecipes returns every recipe ordered by name.
func (r *Repository) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	cursor, err := r.coll(collRecipes).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, &errs.RemoteError{Op: "recipes list", Err: err}
	}

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, &errs.RemoteError{Op: "recipes decode", Err: err}
	}
	return recipes, nil
}

// InsertRecipe stores a new recipe.
func (r *Repository) InsertRecipe(ctx context.Context, recipe models.Recipe) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collRecipes).InsertOne(ctx, recipe)
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "recipe insert", Err: err}
	}
	return nil
}

// UpdateRecipe applies a partial update by identity.
func (r *Repository) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch, at time.Time) error {
	set := bson.M{"updated_at": at}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Ingredients != nil {
		set["ingredients"] = *patch.Ingredients
	}
	if patch.Steps != nil {
		set["steps"] = *patch.Steps
	}
	if patch.Tips != nil {
		set["tips"] = *patch.Tips
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}

	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(collRecipes).UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &errs.ResourceNotFoundError{Resource: "recipe"}
		}
		return &errs.RemoteError{Op: "recipe update", Err: err}
	}
	return nil
}

// DeleteRecipe removes a recipe by identity.
func (r *Repository) DeleteRecipe(ctx context.Context, id string) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collRecipes).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "recipe delete", Err: err}
	}
	return nil
}

// SubscribeRecipes opens a change stream on the recipes collection.
func (r *Repository) SubscribeRecipes(ctx context.Context) (<-chan remote.RecipeEvent, error) {
	stream, err := r.watch(ctx, collRecipes)
	if err != nil {
		return nil, err
	}

	ch := make(chan remote.RecipeEvent)
	go func() {
		defer close(ch)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			var raw struct {
				OperationType string        `bson:"operationType"`
				FullDocument  models.Recipe `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&raw); err != nil {
				r.logger.Warn("malformed recipe change event", zap.Error(err))
				continue
			}

			ev := remote.RecipeEvent{Type: eventType(raw.OperationType), ID: raw.DocumentKey.ID, Recipe: raw.FullDocument}
			if ev.Type == "" {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// --- profiles ---

// ListProfiles returns every profile, admins first, then by name.
func (r *Repository) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	sort := bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}}
	cursor, err := r.coll(collProfiles).Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, &errs.RemoteError{Op: "profiles list", Err: err}
	}

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, &errs.RemoteError{Op: "profiles decode", Err: err}
	}
	return profiles, nil
}

// FindProfileByEmail looks a profile up for sign-in. The match is
// case-insensitive.
func (r *Repository) FindProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	opts := options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2})

	var profile models.Profile
	err := r.coll(collProfiles).FindOne(ctx, bson.M{"email": email}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, &errs.ResourceNotFoundError{Resource: "profile"}
		}
		return models.Profile{}, &errs.RemoteError{Op: "profile lookup", Err: err}
	}
	return profile, nil
}

// InsertProfile stores a new profile.
func (r *Repository) InsertProfile(ctx context.Context, profile models.Profile) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collProfiles).InsertOne(ctx, profile)
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "profile insert", Err: err}
	}
	return nil
}

// UpdateProfile applies a partial update by identity.
func (r *Repository) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) error {
	set := bson.M{}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if len(set) == 0 {
		return nil
	}

	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(collProfiles).UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &errs.ResourceNotFoundError{Resource: "profile"}
		}
		return &errs.RemoteError{Op: "profile update", Err: err}
	}
	return nil
}

// UpdatePasswordHash replaces a profile's credential hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(collProfiles).UpdateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": hash}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &errs.ResourceNotFoundError{Resource: "profile"}
		}
		return &errs.RemoteError{Op: "password update", Err: err}
	}
	return nil
}

// DeleteProfile removes a profile by identity.
func (r *Repository) DeleteProfile(ctx context.Context, id string) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collProfiles).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "profile delete", Err: err}
	}
	return nil
}

// --- store_settings ---

// GetSettings returns the single settings record.
func (r *Repository) GetSettings(ctx context.Context) (models.StoreSettings, error) {
	var settings models.StoreSettings
	err := r.coll(collSettings).FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.StoreSettings{}, &errs.ResourceNotFoundError{Resource: "store settings"}
		}
		return models.StoreSettings{}, &errs.RemoteError{Op: "settings get", Err: err}
	}
	return settings, nil
}

// InsertSettings stores the initial settings record.
func (r *Repository) InsertSettings(ctx context.Context, settings models.StoreSettings) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collSettings).InsertOne(ctx, settings)
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "settings insert", Err: err}
	}
	return nil
}

// UpdateSettings applies a partial update by identity.
func (r *Repository) UpdateSettings(ctx context.Context, id string, patch models.StoreSettingsPatch, by string, at time.Time) error {
	set := bson.M{"updated_by": by, "updated_at": at}
	if patch.StoreName != nil {
		set["store_name"] = *patch.StoreName
	}
	if patch.Currency != nil {
		set["currency"] = *patch.Currency
	}
	if patch.PriceSmall != nil {
		set["price_small"] = *patch.PriceSmall
	}
	if patch.PriceMedium != nil {
		set["price_medium"] = *patch.PriceMedium
	}
	if patch.PriceLarge != nil {
		set["price_large"] = *patch.PriceLarge
	}
	if patch.LowStockWebhook != nil {
		set["low_stock_webhook"] = *patch.LowStockWebhook
	}

	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(collSettings).UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &errs.ResourceNotFoundError{Resource: "store settings"}
		}
		return &errs.RemoteError{Op: "settings update", Err: err}
	}
	return nil
}

// SubscribeSettings opens a change stream on store_settings.
func (r *Repository) SubscribeSettings(ctx context.Context) (<-chan remote.SettingsEvent, error) {
	stream, err := r.watch(ctx, collSettings)
	if err != nil {
		return nil, err
	}

	ch := make(chan remote.SettingsEvent)
	go func() {
		defer close(ch)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			var raw struct {
				OperationType string               `bson:"operationType"`
				FullDocument  models.StoreSettings `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&raw); err != nil {
				r.logger.Warn("malformed settings change event", zap.Error(err))
				continue
			}

			ev := remote.SettingsEvent{Type: eventType(raw.OperationType), ID: raw.DocumentKey.ID, Settings: raw.FullDocument}
			if ev.Type == "" {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// --- reports ---

// SaveReport persists a generated report snapshot.
func (r *Repository) SaveReport(ctx context.Context, report models.StoreReport) error {
	err := remote.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(collReports).InsertOne(ctx, report)
		return err
	})
	if err != nil {
		return &errs.RemoteError{Op: "report save", Err: err}
	}
	return nil
}

func (r *Repository) watch(ctx context.Context, collection string) (*mongo.ChangeStream, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.coll(collection).Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, &errs.RemoteError{Op: collection + " subscribe", Err: err}
	}
	return stream, nil
}

func eventType(operation string) remote.EventType {
	switch operation {
	case "insert":
		return remote.EventInserted
	case "update", "replace":
		return remote.EventUpdated
	case "delete":
		return remote.EventDeleted
	}
	return ""
}
