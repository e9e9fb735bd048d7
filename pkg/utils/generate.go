package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

// GenerateHoldToken creates the opaque token a customer presents to
// validate or redeem a slot hold.
func GenerateHoldToken() uuid.UUID {
	return uuid.New()
}

// ==================== ORDER ID ====================

func GenerateOrderID() string {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	// Format: HIB-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("HIB-%s-%s-%s", datePart, timePart, randomPart)
}
