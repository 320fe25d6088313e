package config

import (
	"fmt"
)

type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// TestDeadlineKey returns the store key holding the absolute submission
// deadline for a test attempt. Scoped per test so that two different tests
// never share a countdown.
func (r *StoreKeyStruct) TestDeadlineKey(testID int64) string {
	return fmt.Sprintf("test:%d:deadline", testID)
}

var StoreKey = NewStoreKeyStruct()
