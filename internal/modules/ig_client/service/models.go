package service

import "strings"

type dealReferenceResponse struct {
	DealReference string `json:"dealReference"`
}

type confirmResponse struct {
	DealReference string  `json:"dealReference"`
	DealID        string  `json:"dealId"`
	DealStatus    string  `json:"dealStatus"` // ACCEPTED / REJECTED
	Status        string  `json:"status"`     // OPEN / CLOSED / ...
	Reason        string  `json:"reason"`
	Level         float64 `json:"level"`
	Epic          string  `json:"epic"`
	Direction     string  `json:"direction"`
	Size          float64 `json:"size"`
}

type marketSearchResponse struct {
	Markets []struct {
		Epic           string `json:"epic"`
		InstrumentName string `json:"instrumentName"`
		Expiry         string `json:"expiry"`
		InstrumentType string `json:"instrumentType"`
	} `json:"markets"`
}

type valueUnit struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

type marketDetailsResponse struct {
	Instrument struct {
		Epic string `json:"epic"`
		Name string `json:"name"`
	} `json:"instrument"`
	DealingRules struct {
		MinDealSize       valueUnit `json:"minDealSize"`
		DealSizeIncrement valueUnit `json:"dealSizeIncrement"`
	} `json:"dealingRules"`
	Snapshot struct {
		MarketStatus string  `json:"marketStatus"`
		Bid          float64 `json:"bid"`
		Offer        float64 `json:"offer"`
	} `json:"snapshot"`
}

// looksLikeMissingPosition — IG по-разному формулирует "позиции уже нет"
// (errorCode в теле, reason в confirm): ловим по подстрокам.
func looksLikeMissingPosition(s string) bool {
	up := strings.ToUpper(s)
	up = strings.ReplaceAll(up, ".", "_")
	up = strings.ReplaceAll(up, "-", "_")
	return strings.Contains(up, "NOT_FOUND") ||
		strings.Contains(up, "NOTFOUND") ||
		strings.Contains(up, "NOT_AVAILABLE") ||
		strings.Contains(up, "NO_SUCH_POSITION")
}
