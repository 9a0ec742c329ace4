package model

// Customer value segments derived from the composite RFM score.
const (
	SegmentChampions          = "Champions"
	SegmentLoyalCustomers     = "Loyal Customers"
	SegmentPotentialLoyalists = "Potential Loyalists"
	SegmentAtRiskCustomers    = "At-Risk Customers"
	SegmentLostCustomers      = "Lost Customers"
)

// SegmentFor maps a composite RFM score to its segment. Thresholds are
// evaluated high to low.
func SegmentFor(score int) string {
	switch {
	case score >= 11:
		return SegmentChampions
	case score >= 9:
		return SegmentLoyalCustomers
	case score >= 7:
		return SegmentPotentialLoyalists
	case score >= 5:
		return SegmentAtRiskCustomers
	default:
		return SegmentLostCustomers
	}
}

// RFMRecord is one customer's recency/frequency/monetary profile. Recency is
// days from the customer's last purchase to the snapshot date (latest invoice
// date across all transactions plus one day). MonetaryValue is the sum of
// quantity x price, before discounts.
type RFMRecord struct {
	CustomerID    string  `csv:"customer_id" json:"customer_id"`
	Recency       int     `csv:"Recency" json:"recency"`
	Frequency     int     `csv:"Frequency" json:"frequency"`
	MonetaryValue float64 `csv:"MonetaryValue" json:"monetary_value"`
	RScore        int     `csv:"R_Score" json:"r_score"`
	FScore        int     `csv:"F_Score" json:"f_score"`
	MScore        int     `csv:"M_Score" json:"m_score"`
	RFMScore      int     `csv:"RFM_Score" json:"rfm_score"`
	Segment       string  `csv:"Segment" json:"segment"`
}
