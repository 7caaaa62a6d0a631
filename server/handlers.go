package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/malusev998/money"
	"github.com/malusev998/money/services"
)

const maxBodySize = 1 << 20

type (
	ConvertRequest struct {
		Amount string `json:"amount" validate:"required,numeric"`
		From   string `json:"from" validate:"required,len=3,alpha"`
		To     string `json:"to" validate:"required,len=3,alpha"`
	}

	DistributeRequest struct {
		Amount   string `json:"amount" validate:"required,numeric"`
		Currency string `json:"currency" validate:"required,len=3,alpha"`
		Parts    int    `json:"parts" validate:"required,min=1,max=1000"`
	}

	MoneyResponse struct {
		Amount    string `json:"amount"`
		Currency  string `json:"currency"`
		Formatted string `json:"formatted,omitempty"`
	}

	ConvertResponse struct {
		MoneyResponse
		Rounded string `json:"rounded"`
		Rate    string `json:"rate"`
	}

	DistributeResponse struct {
		Parts []MoneyResponse `json:"parts"`
	}

	RatesResponse struct {
		Provider    string            `json:"provider"`
		Base        string            `json:"base"`
		State       string            `json:"state"`
		FetchedAt   time.Time         `json:"fetched_at"`
		PublishedAt *time.Time        `json:"published_at,omitempty"`
		Rates       map[string]string `json:"rates"`
	}

	CurrencyResponse struct {
		Code          string `json:"code"`
		Numeric       uint16 `json:"numeric"`
		DecimalPlaces int    `json:"decimal_places"`
		Symbol        string `json:"symbol"`
		Name          string `json:"name"`
		NativeName    string `json:"native_name"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func newMoneyResponse(m money.Money) MoneyResponse {
	formatted, _ := m.Format()

	return MoneyResponse{
		Amount:    m.Amount().String(),
		Currency:  m.Code().String(),
		Formatted: formatted,
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.log.Warn("failed to decode request body", zap.Error(err))
		return fmt.Errorf("%w: invalid request payload", money.ErrInvalidArgument)
	}

	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", money.ErrInvalidArgument, err)
	}

	return nil
}

func (s *Server) parseMoney(amount, code string) (money.Money, error) {
	c, err := money.ParseCode(code)
	if err != nil {
		return money.Money{}, err
	}

	return money.FromString(amount, s.registry.LookupOrMinimal(c))
}

func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest

	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	m, err := s.parseMoney(req.Amount, req.From)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	target, err := money.ParseCode(req.To)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	converted, err := s.converter.Convert(r.Context(), m, target)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	rate, err := s.converter.Rate(r.Context(), m.Code(), target)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	rounded := converted.Round()

	respondWithJSON(w, http.StatusOK, ConvertResponse{
		MoneyResponse: newMoneyResponse(converted),
		Rounded:       rounded.Amount().StringFixed(int32(rounded.Currency().DecimalPlaces)),
		Rate:          rate.String(),
	})
}

func (s *Server) Distribute(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest

	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	m, err := s.parseMoney(req.Amount, req.Currency)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	distribution, err := m.Distribute(req.Parts)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	parts := make([]MoneyResponse, 0, distribution.Remaining())

	for part, ok := distribution.Next(); ok; part, ok = distribution.Next() {
		parts = append(parts, newMoneyResponse(part))
	}

	respondWithJSON(w, http.StatusOK, DistributeResponse{Parts: parts})
}

func (s *Server) Rates(w http.ResponseWriter, r *http.Request) {
	if s.converter.State() != services.StateFresh {
		if err := s.converter.Refresh(r.Context()); err != nil {
			s.log.Warn("refreshing rates failed", zap.Error(err))
		}
	}

	snapshot, ok := s.converter.Snapshot()
	if !ok {
		s.handleError(w, r, money.ErrRateUnavailable)
		return
	}

	rates := make(map[string]string, snapshot.Len())
	for code, rate := range snapshot.Rates() {
		rates[code.String()] = rate.String()
	}

	response := RatesResponse{
		Provider:  snapshot.Provider.String(),
		Base:      snapshot.Base.String(),
		State:     s.converter.State().String(),
		FetchedAt: snapshot.FetchedAt,
		Rates:     rates,
	}

	if !snapshot.PublishedAt.IsZero() {
		response.PublishedAt = &snapshot.PublishedAt
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (s *Server) Currency(w http.ResponseWriter, r *http.Request) {
	code, err := money.ParseCode(mux.Vars(r)["code"])
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	currency, err := s.registry.Lookup(code)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, CurrencyResponse{
		Code:          currency.Code.String(),
		Numeric:       currency.Code.Numeric(),
		DecimalPlaces: currency.DecimalPlaces,
		Symbol:        currency.Symbol,
		Name:          currency.EnglishName,
		NativeName:    currency.NativeName,
	})
}

// StatusFor maps an error to the HTTP status describing it.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, money.ErrRateUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, money.ErrCurrencyMismatch),
		errors.Is(err, money.ErrInvalidArgument),
		errors.Is(err, money.ErrDivisionByZero):
		return http.StatusBadRequest
	case errors.Is(err, money.ErrUnsupportedCurrency),
		errors.Is(err, money.ErrUnknownCode),
		errors.Is(err, money.ErrUnknownCurrency),
		errors.Is(err, money.ErrUnsupportedPrecision):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	} else {
		s.log.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	respondWithError(w, status, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, v interface{}) {
	response, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
