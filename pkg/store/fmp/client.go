package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

const (
	DefaultBaseURL = "https://financialmodelingprep.com/api/v3"
	DefaultSymbol  = "AAPL"
	DefaultPeriod  = "annual"
	DefaultTimeout = 30 * time.Second

	redacted = "[HIDDEN]"
)

type Client interface {
	GetIncomeStatements(ctx context.Context) ([]domain.FinancialRecord, error)
	Symbol() string
}

type Config struct {
	BaseURL    string
	APIKey     string
	Symbol     string
	Period     string
	HTTPClient *http.Client
}

// rawStatement mirrors one element of the income-statement response.
// Pointer fields let the validator tell a missing figure from a zero one.
type rawStatement struct {
	Date             string           `json:"date" validate:"required"`
	Symbol           string           `json:"symbol"`
	ReportedCurrency string           `json:"reportedCurrency"`
	FillingDate      string           `json:"fillingDate"`
	AcceptedDate     string           `json:"acceptedDate"`
	Period           string           `json:"period"`
	Revenue          *decimal.Decimal `json:"revenue" validate:"required"`
	CostOfRevenue    *decimal.Decimal `json:"costOfRevenue"`
	GrossProfit      *decimal.Decimal `json:"grossProfit" validate:"required"`
	GrossProfitRatio *decimal.Decimal `json:"grossProfitRatio"`
	OperatingIncome  *decimal.Decimal `json:"operatingIncome" validate:"required"`
	NetIncome        *decimal.Decimal `json:"netIncome" validate:"required"`
	EPS              *decimal.Decimal `json:"eps" validate:"required"`
}

type errorBody struct {
	Message      string `json:"message"`
	ErrorMessage string `json:"Error Message"`
}

type client struct {
	httpClient *http.Client
	validate   *validator.Validate
	baseURL    string
	apiKey     string
	symbol     string
	period     string
}

// NewClient fails with ErrCredentialNotFound when no API key is configured.
func NewClient(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrCredentialNotFound
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Symbol == "" {
		cfg.Symbol = DefaultSymbol
	}
	if cfg.Period == "" {
		cfg.Period = DefaultPeriod
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &client{
		httpClient: cfg.HTTPClient,
		validate:   validator.New(),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		symbol:     cfg.Symbol,
		period:     cfg.Period,
	}, nil
}

func (c *client) Symbol() string {
	return c.symbol
}

func (c *client) GetIncomeStatements(ctx context.Context) ([]domain.FinancialRecord, error) {
	logger := zerolog.Ctx(ctx)

	endpoint, err := url.Parse(fmt.Sprintf("%s/income-statement/%s", c.baseURL, url.PathEscape(c.symbol)))
	if err != nil {
		return nil, fmt.Errorf("failed to build request url: %w", err)
	}
	query := endpoint.Query()
	query.Set("period", c.period)
	query.Set("apikey", c.apiKey)
	endpoint.RawQuery = query.Encode()

	logger.Info().
		Str("url", strings.ReplaceAll(endpoint.String(), url.QueryEscape(c.apiKey), redacted)).
		Msg("fetching income statements")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(c.redact(err)).Msg("income statement request failed")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, c.redact(err))
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrMalformedResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := classifyStatus(resp.StatusCode, body)
		logger.Error().Err(statusErr).Int("status", resp.StatusCode).Msg("income statement request rejected")
		return nil, statusErr
	}

	var raw []rawStatement
	if err := json.Unmarshal(body, &raw); err != nil {
		logger.Error().Err(err).Msg("failed to decode income statements")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	records := make([]domain.FinancialRecord, 0, len(raw))
	for i, item := range raw {
		record, err := c.toRecord(item)
		if err != nil {
			logger.Error().Err(err).Int("index", i).Msg("invalid income statement")
			return nil, fmt.Errorf("%w: statement %d: %v", ErrMalformedResponse, i, err)
		}
		records = append(records, record)
	}

	logger.Debug().Int("count", len(records)).Str("symbol", c.symbol).Msg("income statements fetched")
	return records, nil
}

func (c *client) toRecord(item rawStatement) (domain.FinancialRecord, error) {
	if err := c.validate.Struct(item); err != nil {
		return domain.FinancialRecord{}, err
	}

	date, err := time.Parse("2006-01-02", item.Date)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("invalid date %q: %w", item.Date, err)
	}

	return domain.FinancialRecord{
		Date:            date.UTC(),
		Revenue:         *item.Revenue,
		NetIncome:       *item.NetIncome,
		GrossProfit:     *item.GrossProfit,
		EPS:             *item.EPS,
		OperatingIncome: *item.OperatingIncome,
	}, nil
}

// redact strips the API key from transport errors, which embed the request url.
func (c *client) redact(err error) error {
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(c.apiKey), redacted)
	return fmt.Errorf("%s", strings.ReplaceAll(msg, c.apiKey, redacted))
}

func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidCredential
	case http.StatusForbidden:
		return ErrAccessForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	statusErr := &StatusError{StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		statusErr.Message = eb.Message
		if statusErr.Message == "" {
			statusErr.Message = eb.ErrorMessage
		}
	}
	return statusErr
}
