package nvi

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// DefaultEndpoint is the public KPS identity verification service.
const DefaultEndpoint = "https://tckimlik.nvi.gov.tr/Service/KPSPublic.asmx"

const soapAction = "http://tckimlik.nvi.gov.tr/WS/TCKimlikNoDogrula"

var ErrUnexpectedStatus = errors.New("unexpected status from identity service")

// Verifier checks person details against the national registry.
type Verifier interface {
	Verify(ctx context.Context, req VerifyRequest) (bool, error)
}

// VerifyRequest carries the fields checked against the registry. Name and
// Surname are normalized before sending; NationalID is stripped to digits.
type VerifyRequest struct {
	NationalID string
	Name       string
	Surname    string
	BirthYear  int
}

// Client is a SOAP 1.1 client for the KPSPublic TCKimlikNoDogrula operation.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client against the given endpoint. An empty endpoint
// falls back to DefaultEndpoint.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type verifyEnvelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    struct {
		Request verifyBody `xml:"http://tckimlik.nvi.gov.tr/WS TCKimlikNoDogrula"`
	} `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type verifyBody struct {
	NationalID string `xml:"TCKimlikNo"`
	Name       string `xml:"Ad"`
	Surname    string `xml:"Soyad"`
	BirthYear  int    `xml:"DogumYili"`
}

type verifyResponse struct {
	Result bool `xml:"Body>TCKimlikNoDogrulaResponse>TCKimlikNoDogrulaResult"`
}

// Verify performs the SOAP call and returns whether the registry confirms
// the provided details.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (bool, error) {
	envelope := verifyEnvelope{}
	envelope.Body.Request = verifyBody{
		NationalID: StripNonDigits(req.NationalID),
		Name:       NormalizeName(req.Name),
		Surname:    NormalizeName(req.Surname),
		BirthYear:  req.BirthYear,
	}

	payload, err := xml.Marshal(envelope)
	if err != nil {
		return false, err
	}

	body := append([]byte(xml.Header), payload...)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}

	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", soapAction)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var parsed verifyResponse
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return false, err
	}

	return parsed.Result, nil
}

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeName trims the input, collapses repeated whitespace, and upper
// cases it with Turkish casing rules so that "i" maps to "İ" and "ı" to "I",
// matching how names are stored in the registry.
func NormalizeName(name string) string {
	name = multiSpace.ReplaceAllString(strings.TrimSpace(name), " ")
	return strings.ToUpperSpecial(unicode.TurkishCase, name)
}

// StripNonDigits removes every non-numeric character from the national id.
func StripNonDigits(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
