package model

// DailySalesRow is one (date, mall, region) group of the daily sales table.
type DailySalesRow struct {
	InvoiceDate         Date    `csv:"invoice_date" json:"invoice_date"`
	ShoppingMall        string  `csv:"shopping_mall" json:"shopping_mall"`
	Region              string  `csv:"Region" json:"region"`
	TotalRevenue        float64 `csv:"total_revenue" json:"total_revenue"`
	TransactionCount    int     `csv:"transaction_count" json:"transaction_count"`
	AvgTransactionValue float64 `csv:"avg_transaction_value" json:"avg_transaction_value"`
	TotalQuantity       int     `csv:"total_quantity" json:"total_quantity"`
	UniqueCustomers     int     `csv:"unique_customers" json:"unique_customers"`
	RevenuePerCustomer  float64 `csv:"revenue_per_customer" json:"revenue_per_customer"`
}

// RegionalDailySalesRow is one (date, region) group of the regional daily
// sales table.
type RegionalDailySalesRow struct {
	InvoiceDate         Date    `csv:"invoice_date" json:"invoice_date"`
	Region              string  `csv:"Region" json:"region"`
	TotalRevenue        float64 `csv:"total_revenue" json:"total_revenue"`
	TransactionCount    int     `csv:"transaction_count" json:"transaction_count"`
	AvgTransactionValue float64 `csv:"avg_transaction_value" json:"avg_transaction_value"`
	TotalQuantity       int     `csv:"total_quantity" json:"total_quantity"`
	UniqueCustomers     int     `csv:"unique_customers" json:"unique_customers"`
	ActiveMalls         int     `csv:"active_malls" json:"active_malls"`
}

// MallProfitabilityRow is one (mall, region) group of the mall
// profitability table. Ratio columns are derived from the group sums.
type MallProfitabilityRow struct {
	ShoppingMall        string  `csv:"shopping_mall" json:"shopping_mall"`
	Region              string  `csv:"Region" json:"region"`
	GrossRevenue        float64 `csv:"gross_revenue" json:"gross_revenue"`
	TotalDiscounts      float64 `csv:"total_discounts" json:"total_discounts"`
	NetRevenue          float64 `csv:"net_revenue" json:"net_revenue"`
	TotalQuantity       int     `csv:"total_quantity" json:"total_quantity"`
	TotalTransactions   int     `csv:"total_transactions" json:"total_transactions"`
	DiscountRate        float64 `csv:"discount_rate" json:"discount_rate"`
	AvgTransactionValue float64 `csv:"avg_transaction_value" json:"avg_transaction_value"`
	RevenuePerUnit      float64 `csv:"revenue_per_unit" json:"revenue_per_unit"`
}

// CategoryProfitabilityRow is one category group of the category
// profitability table.
type CategoryProfitabilityRow struct {
	Category       string  `csv:"category" json:"category"`
	TotalAmount    float64 `csv:"total_amount" json:"total_amount"`
	DiscountAmount float64 `csv:"discount_amount" json:"discount_amount"`
	FinalAmount    float64 `csv:"final_amount" json:"final_amount"`
	Quantity       int     `csv:"quantity" json:"quantity"`
	ProfitMargin   float64 `csv:"profit_margin" json:"profit_margin"`
}

// MonthlyTrendRow is one (year, month) group of the monthly trends table.
type MonthlyTrendRow struct {
	Year              int     `csv:"year" json:"year"`
	Month             int     `csv:"month" json:"month"`
	TotalRevenue      float64 `csv:"total_revenue" json:"total_revenue"`
	TotalQuantity     int     `csv:"total_quantity" json:"total_quantity"`
	TotalTransactions int     `csv:"total_transactions" json:"total_transactions"`
	YearMonth         string  `csv:"year_month" json:"year_month"`
}

// SeasonalTrendRow is one season group, emitted in calendar order.
type SeasonalTrendRow struct {
	Season            Season  `csv:"season" json:"season"`
	TotalRevenue      float64 `csv:"total_revenue" json:"total_revenue"`
	AvgRevenue        float64 `csv:"avg_revenue" json:"avg_revenue"`
	TotalQuantity     int     `csv:"total_quantity" json:"total_quantity"`
	TotalTransactions int     `csv:"total_transactions" json:"total_transactions"`
}

// QuarterlyTrendRow is one (year, quarter) group of the quarterly trends table.
type QuarterlyTrendRow struct {
	Year              int     `csv:"year" json:"year"`
	Quarter           int     `csv:"quarter" json:"quarter"`
	TotalRevenue      float64 `csv:"total_revenue" json:"total_revenue"`
	TotalQuantity     int     `csv:"total_quantity" json:"total_quantity"`
	TotalTransactions int     `csv:"total_transactions" json:"total_transactions"`
}

// WeeklyPatternRow is one weekday group, emitted Monday through Sunday.
type WeeklyPatternRow struct {
	Weekday           int     `csv:"weekday" json:"weekday"`
	WeekdayName       string  `csv:"weekday_name" json:"weekday_name"`
	TotalRevenue      float64 `csv:"total_revenue" json:"total_revenue"`
	AvgRevenue        float64 `csv:"avg_revenue" json:"avg_revenue"`
	TotalTransactions int     `csv:"total_transactions" json:"total_transactions"`
}

// PaymentAnalysisRow is one payment-method group. RevenuePercentage and
// TransactionPercentage each sum to ~100 across all methods.
type PaymentAnalysisRow struct {
	PaymentMethod         string  `csv:"payment_method" json:"payment_method"`
	TotalRevenue          float64 `csv:"total_revenue" json:"total_revenue"`
	AvgTransactionValue   float64 `csv:"avg_transaction_value" json:"avg_transaction_value"`
	TransactionCount      int     `csv:"transaction_count" json:"transaction_count"`
	TotalQuantity         int     `csv:"total_quantity" json:"total_quantity"`
	UniqueCustomers       int     `csv:"unique_customers" json:"unique_customers"`
	RevenuePercentage     float64 `csv:"revenue_percentage" json:"revenue_percentage"`
	TransactionPercentage float64 `csv:"transaction_percentage" json:"transaction_percentage"`
}

// PaymentByRegionRow is one (region, payment method) group.
type PaymentByRegionRow struct {
	Region           string  `csv:"Region" json:"region"`
	PaymentMethod    string  `csv:"payment_method" json:"payment_method"`
	TotalRevenue     float64 `csv:"total_revenue" json:"total_revenue"`
	TransactionCount int     `csv:"transaction_count" json:"transaction_count"`
}

// PaymentByCategoryRow is one (category, payment method) group.
type PaymentByCategoryRow struct {
	Category         string  `csv:"category" json:"category"`
	PaymentMethod    string  `csv:"payment_method" json:"payment_method"`
	TotalRevenue     float64 `csv:"total_revenue" json:"total_revenue"`
	TransactionCount int     `csv:"transaction_count" json:"transaction_count"`
}

// PaymentTrendRow is one (year, month, payment method) group.
type PaymentTrendRow struct {
	Year             int     `csv:"year" json:"year"`
	Month            int     `csv:"month" json:"month"`
	PaymentMethod    string  `csv:"payment_method" json:"payment_method"`
	TotalRevenue     float64 `csv:"total_revenue" json:"total_revenue"`
	TransactionCount int     `csv:"transaction_count" json:"transaction_count"`
}
