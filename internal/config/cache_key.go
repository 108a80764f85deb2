package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DeviceSessionKey returns the cache key for the session logged in on a device
func (r *CacheKeyStruct) DeviceSessionKey(deviceID string) string {
	return fmt.Sprintf("device:%s:session", deviceID)
}

// AttemptAnswersKey returns the cache key for a student's draft answers
func (r *CacheKeyStruct) AttemptAnswersKey(attemptID, userID int64) string {
	return fmt.Sprintf("student:%d:attempt:%d:answers", userID, attemptID)
}

// AttemptMarkedKey returns the cache key for a student's marked-for-review set
func (r *CacheKeyStruct) AttemptMarkedKey(attemptID, userID int64) string {
	return fmt.Sprintf("student:%d:attempt:%d:marked", userID, attemptID)
}

var CacheKey = NewCacheKeyStruct()
