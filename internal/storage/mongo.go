package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoProfiles       = "users"
	mongoMoodLogs       = "mood_logs"
	mongoSleepLogs      = "sleep_logs"
	mongoWaterLogs      = "water_intake_logs"
	mongoMedications    = "medications"
	mongoMedicationLogs = "medication_logs"
)

// MongoStorage keeps each journal kind in its own collection. Mood and sleep documents are
// keyed by (user_id, date) through a unique index and written with upserts.
type MongoStorage struct {
	client *mongo.Client
	db     *mongo.Database
	logger internal.Logger
}

func NewMongoStorage(ctx context.Context, uri, database string, logger internal.Logger) (*MongoStorage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Errorf("failed to connect to mongo: %v", err)
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		logger.Errorf("mongo is not reachable: %v", err)
		return nil, err
	}
	s := &MongoStorage{client: client, db: client.Database(database), logger: logger}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		logger.Errorf("failed to create mongo indexes: %v", err)
		return nil, err
	}
	return s, nil
}

func (s *MongoStorage) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		mongoProfiles: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(&options.Collation{Locale: "en", Strength: 2})},
		},
		mongoMoodLogs:       {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique}},
		mongoSleepLogs:      {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique}},
		mongoWaterLogs:      {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "logged_at", Value: -1}}}},
		mongoMedications:    {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}}},
		mongoMedicationLogs: {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "taken_at", Value: 1}}}},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoNotFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("storage: %s: %w", what, internal.ErrNotFound)
	}
	return err
}

func requireDeleted(res *mongo.DeleteResult, what string) error {
	if res.DeletedCount == 0 {
		return fmt.Errorf("storage: %s: %w", what, internal.ErrNotFound)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- ProfileRepository ---
func (s *MongoStorage) CreateProfile(ctx context.Context, p *internal.UserProfile) error {
	_, err := s.db.Collection(mongoProfiles).InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("storage: profile %s: %w", p.Email, internal.ErrConflict)
	}
	if err != nil {
		s.logger.Errorf("failed to insert profile: %v", err)
	}
	return err
}

func (s *MongoStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	var p internal.UserProfile
	if err := s.db.Collection(mongoProfiles).FindOne(ctx, bson.M{"_id": userID}).Decode(&p); err != nil {
		return nil, mongoNotFound(err, "profile")
	}
	return &p, nil
}

func (s *MongoStorage) GetProfileByEmail(ctx context.Context, email string) (*internal.UserProfile, error) {
	var p internal.UserProfile
	filter := bson.M{"email": bson.M{"$regex": "^" + regexp.QuoteMeta(email) + "$", "$options": "i"}}
	if err := s.db.Collection(mongoProfiles).FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, mongoNotFound(err, "profile")
	}
	return &p, nil
}

func (s *MongoStorage) UpdateProfile(ctx context.Context, p *internal.UserProfile) error {
	res, err := s.db.Collection(mongoProfiles).ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		s.logger.Errorf("failed to update profile: %v", err)
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("storage: profile: %w", internal.ErrNotFound)
	}
	return nil
}

// --- MoodRepository ---
func (s *MongoStorage) UpsertMoodLog(ctx context.Context, l *internal.MoodLog) error {
	filter := bson.M{"user_id": l.UserID, "date": l.Date}
	_, err := s.db.Collection(mongoMoodLogs).UpdateOne(ctx, filter, bson.M{"$set": l}, options.Update().SetUpsert(true))
	if err != nil {
		s.logger.Errorf("failed to upsert mood log: %v", err)
	}
	return err
}

func (s *MongoStorage) GetMoodLog(ctx context.Context, userID, date string) (*internal.MoodLog, error) {
	var l internal.MoodLog
	if err := s.db.Collection(mongoMoodLogs).FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&l); err != nil {
		return nil, mongoNotFound(err, "mood log "+date)
	}
	return &l, nil
}

func (s *MongoStorage) ListMoodLogs(ctx context.Context, userID, from, to string) ([]internal.MoodLog, error) {
	filter := bson.M{"user_id": userID, "date": bson.M{"$gte": from, "$lte": to}}
	return findAll[internal.MoodLog](ctx, s.db.Collection(mongoMoodLogs), filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (s *MongoStorage) DeleteMoodLog(ctx context.Context, userID, date string) error {
	res, err := s.db.Collection(mongoMoodLogs).DeleteOne(ctx, bson.M{"user_id": userID, "date": date})
	if err != nil {
		return err
	}
	return requireDeleted(res, "mood log "+date)
}

// --- SleepLogRepository ---
func (s *MongoStorage) UpsertSleepLog(ctx context.Context, l *internal.SleepLog) error {
	filter := bson.M{"user_id": l.UserID, "date": l.Date}
	_, err := s.db.Collection(mongoSleepLogs).UpdateOne(ctx, filter, bson.M{"$set": l}, options.Update().SetUpsert(true))
	if err != nil {
		s.logger.Errorf("failed to upsert sleep log: %v", err)
	}
	return err
}

func (s *MongoStorage) GetSleepLog(ctx context.Context, userID, date string) (*internal.SleepLog, error) {
	var l internal.SleepLog
	if err := s.db.Collection(mongoSleepLogs).FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&l); err != nil {
		return nil, mongoNotFound(err, "sleep log "+date)
	}
	return &l, nil
}

func (s *MongoStorage) ListSleepLogs(ctx context.Context, userID, from, to string) ([]internal.SleepLog, error) {
	filter := bson.M{"user_id": userID, "date": bson.M{"$gte": from, "$lte": to}}
	return findAll[internal.SleepLog](ctx, s.db.Collection(mongoSleepLogs), filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (s *MongoStorage) DeleteSleepLog(ctx context.Context, userID, date string) error {
	res, err := s.db.Collection(mongoSleepLogs).DeleteOne(ctx, bson.M{"user_id": userID, "date": date})
	if err != nil {
		return err
	}
	return requireDeleted(res, "sleep log "+date)
}

// --- WaterRepository ---
func (s *MongoStorage) AddWaterLog(ctx context.Context, l *internal.WaterIntakeLog) error {
	_, err := s.db.Collection(mongoWaterLogs).InsertOne(ctx, l)
	if err != nil {
		s.logger.Errorf("failed to insert water log: %v", err)
	}
	return err
}

func (s *MongoStorage) ListWaterLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.WaterIntakeLog, error) {
	filter := bson.M{"user_id": userID, "logged_at": bson.M{"$gte": from, "$lt": to}}
	return findAll[internal.WaterIntakeLog](ctx, s.db.Collection(mongoWaterLogs), filter, options.Find().SetSort(bson.D{{Key: "logged_at", Value: -1}}))
}

func (s *MongoStorage) DeleteWaterLog(ctx context.Context, userID, id string) error {
	res, err := s.db.Collection(mongoWaterLogs).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	return requireDeleted(res, "water log "+id)
}

// --- MedicationRepository ---
func (s *MongoStorage) AddMedication(ctx context.Context, m *internal.Medication) error {
	_, err := s.db.Collection(mongoMedications).InsertOne(ctx, m)
	if err != nil {
		s.logger.Errorf("failed to insert medication: %v", err)
	}
	return err
}

func (s *MongoStorage) GetMedication(ctx context.Context, userID, id string) (*internal.Medication, error) {
	var m internal.Medication
	if err := s.db.Collection(mongoMedications).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&m); err != nil {
		return nil, mongoNotFound(err, "medication "+id)
	}
	return &m, nil
}

func (s *MongoStorage) ListMedications(ctx context.Context, userID string) ([]internal.Medication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[internal.Medication](ctx, s.db.Collection(mongoMedications), bson.M{"user_id": userID}, opts)
}

func (s *MongoStorage) DeleteMedication(ctx context.Context, userID, id string) error {
	res, err := s.db.Collection(mongoMedications).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	return requireDeleted(res, "medication "+id)
}

func (s *MongoStorage) AddMedicationLog(ctx context.Context, l *internal.MedicationLog) error {
	_, err := s.db.Collection(mongoMedicationLogs).InsertOne(ctx, l)
	if err != nil {
		s.logger.Errorf("failed to insert medication log: %v", err)
	}
	return err
}

func (s *MongoStorage) ListMedicationLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.MedicationLog, error) {
	filter := bson.M{"user_id": userID, "taken_at": bson.M{"$gte": from, "$lt": to}}
	return findAll[internal.MedicationLog](ctx, s.db.Collection(mongoMedicationLogs), filter, options.Find().SetSort(bson.D{{Key: "taken_at", Value: 1}}))
}

func (s *MongoStorage) DeleteMedicationLog(ctx context.Context, userID, id string) error {
	res, err := s.db.Collection(mongoMedicationLogs).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	return requireDeleted(res, "medication log "+id)
}

// --- Compile-time assertions ---
var _ Store = (*MongoStorage)(nil)
