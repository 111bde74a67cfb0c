package service

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"clearmoney/domain"
)

// inputHash fingerprints a sanitized input together with the month cap,
// since both determine the result.
func inputHash(input domain.PayoffInput, maxMonths int) (string, error) {
	payload, err := json.Marshal(struct {
		Input     domain.PayoffInput `json:"input"`
		MaxMonths int                `json:"maxMonths"`
	}{input, maxMonths})
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(payload), 16), nil
}
