package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
)

// DescriptorCache stores extracted reference descriptors in redis so repeat
// verifications of the same student skip the photo fetch and extraction.
// Purely best effort: every failure degrades to a cache miss.
type DescriptorCache struct {
	TTL time.Duration
}

func NewDescriptorCache(ttl time.Duration) *DescriptorCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DescriptorCache{TTL: ttl}
}

func descriptorKey(studentID string) string {
	return fmt.Sprintf("%s-reference-descriptor", studentID)
}

func (dc *DescriptorCache) FindDescriptor(_ context.Context, studentID string) (entities.FaceDescriptor, bool) {
	raw := Cache.FindOne(descriptorKey(studentID))
	if raw == nil {
		return nil, false
	}
	var descriptor entities.FaceDescriptor
	if err := json.Unmarshal([]byte(*raw), &descriptor); err != nil {
		logger.Warning("cached reference descriptor is corrupt, dropping it", logger.LoggerOptions{
			Key:  "studentID",
			Data: studentID,
		})
		Cache.DeleteOne(descriptorKey(studentID))
		return nil, false
	}
	return descriptor, true
}

func (dc *DescriptorCache) SaveDescriptor(_ context.Context, studentID string, descriptor entities.FaceDescriptor) {
	payload, err := json.Marshal(descriptor)
	if err != nil {
		return
	}
	Cache.CreateEntry(descriptorKey(studentID), payload, dc.TTL)
}
