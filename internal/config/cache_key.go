package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentByClerkIDKey returns the cache key for a student looked up by clerk ID.
func (r *CacheKeyStruct) StudentByClerkIDKey(clerkID string) string {
	return fmt.Sprintf("student:clerk:%s", clerkID)
}

// AllClassroomsKey returns the cache key for the unfiltered classroom list.
func (r *CacheKeyStruct) AllClassroomsKey() string {
	return "classrooms:all"
}

// MentorByClerkIDKey returns the cache key for a mentor looked up by clerk ID.
func (r *CacheKeyStruct) MentorByClerkIDKey(clerkID string) string {
	return fmt.Sprintf("mentor:clerk:%s", clerkID)
}

var CacheKey = NewCacheKeyStruct()
