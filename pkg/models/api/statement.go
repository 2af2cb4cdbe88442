package api

type Statement struct {
	Date            string  `json:"date"` // 2023-09-30
	Revenue         float64 `json:"revenue"`
	NetIncome       float64 `json:"netIncome"`
	GrossProfit     float64 `json:"grossProfit"`
	EPS             float64 `json:"eps"`
	OperatingIncome float64 `json:"operatingIncome"`
}

type StatementQuery struct {
	Start        string
	End          string
	RevenueMin   string
	RevenueMax   string
	NetIncomeMin string
	NetIncomeMax string
	Sort         string
	Direction    string
}

type SortField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type Error struct {
	Error string `json:"error"`
}
