package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrStudentNotFound     = errors.New("student not found in registry")
	ErrRegistryUnavailable = errors.New("student registry datastore is not connected")
)

// StudentRegistry is the read-only lookup the verification flow runs against.
// Records never change during a session; administrative additions happen out
// of band.
type StudentRegistry interface {
	FindByID(ctx context.Context, studentID string) (*entities.StudentRecord, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// MongoStudentRegistry reads the Students collection set up at startup.
type MongoStudentRegistry struct {
	collection *mongo.Collection
}

func NewMongoStudentRegistry() *MongoStudentRegistry {
	return &MongoStudentRegistry{collection: datastore.StudentModel}
}

func (r *MongoStudentRegistry) FindByID(ctx context.Context, studentID string) (*entities.StudentRecord, error) {
	if r.collection == nil {
		return nil, ErrRegistryUnavailable
	}
	var record entities.StudentRecord
	err := r.collection.FindOne(ctx, bson.M{"studentID": studentID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		logger.Error("mongo error occured while running FindByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "studentID",
			Data: studentID,
		})
		return nil, err
	}
	return &record, nil
}

func (r *MongoStudentRegistry) ListIDs(ctx context.Context) ([]string, error) {
	if r.collection == nil {
		return nil, ErrRegistryUnavailable
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"studentID": 1}))
	if err != nil {
		logger.Error("mongo error occured while running ListIDs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var record entities.StudentRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		ids = append(ids, record.StudentID)
	}
	return ids, cursor.Err()
}

// MemoryStudentRegistry serves lookups from an in-process snapshot. Used by
// tests and by deployments that seed the registry from a JSON file instead of
// a database.
type MemoryStudentRegistry struct {
	records map[string]*entities.StudentRecord
	order   []string
}

func NewMemoryStudentRegistry(records []entities.StudentRecord) *MemoryStudentRegistry {
	registry := &MemoryStudentRegistry{
		records: make(map[string]*entities.StudentRecord, len(records)),
	}
	for i := range records {
		record := records[i]
		if _, exists := registry.records[record.StudentID]; exists {
			continue
		}
		registry.records[record.StudentID] = &record
		registry.order = append(registry.order, record.StudentID)
	}
	return registry
}

// LoadMemoryStudentRegistry seeds a registry from a JSON array of student
// records on disk.
func LoadMemoryStudentRegistry(path string) (*MemoryStudentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []entities.StudentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return NewMemoryStudentRegistry(records), nil
}

func (r *MemoryStudentRegistry) FindByID(_ context.Context, studentID string) (*entities.StudentRecord, error) {
	record, ok := r.records[studentID]
	if !ok {
		return nil, ErrStudentNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *MemoryStudentRegistry) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids, nil
}
