package models

// PriceQuote — последняя доступная котировка. Эфемерная, живёт один цикл.
type PriceQuote struct {
	Epic  string
	Bid   float64
	Offer float64
}

func (q PriceQuote) Mid() float64 {
	if q.Bid > 0 && q.Offer > 0 {
		return (q.Bid + q.Offer) / 2
	}
	if q.Bid > 0 {
		return q.Bid
	}
	return q.Offer
}

// MarketDetails — снапшот инструмента с правилами торговли
// (GET /markets/{epic}).
type MarketDetails struct {
	Epic              string
	Name              string
	MarketStatus      string
	Quote             PriceQuote
	MinDealSize       float64
	DealSizeIncrement float64
}
