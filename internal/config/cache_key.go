package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TeacherWorkloadKey returns the cache key holding a teacher's refreshed
// weekly workload for one year/term.
func (r *CacheKeyStruct) TeacherWorkloadKey(teacherID string, year, term int) string {
	return fmt.Sprintf("teacher:%s:year:%d:term:%d:workload", teacherID, year, term)
}

// ScheduleEventsChannel returns the Redis PubSub channel carrying schedule
// slot events for one school.
func (r *CacheKeyStruct) ScheduleEventsChannel(schoolID string) string {
	return fmt.Sprintf("school:%s:schedule:events", schoolID)
}

var CacheKey = NewCacheKeyStruct()
