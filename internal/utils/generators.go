package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

func GeneratePaymentID() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("pay_%d_%06d", timestamp, randomNum.Int64())
}

// GenerateOrderRef builds a short human-readable order reference like
// ORD-20260901-4F2A, used alongside the UUID primary key.
func GenerateOrderRef() string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%s-%X", time.Now().Format("20060102"), buf)
}
