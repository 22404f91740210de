// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package worldid

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/crypto/sha3"

	"github.com/danielhkuo/humanpoll/models"
)

// DefaultEndpoint is the World ID developer portal.
const DefaultEndpoint = "https://developer.worldcoin.org"

// ErrUnavailable means the verify endpoint could not give a verdict.
var ErrUnavailable = errors.New("verification service unavailable")

type Config struct {
	Endpoint string
	AppID    string
	APIKey   string
	Timeout  time.Duration
}

// Client calls the World ID cloud verify endpoint.
type Client struct {
	http  *resty.Client
	appID string
}

type verifyRequest struct {
	NullifierHash     string `json:"nullifier_hash"`
	MerkleRoot        string `json:"merkle_root"`
	Proof             string `json:"proof"`
	VerificationLevel string `json:"verification_level"`
	Action            string `json:"action"`
	SignalHash        string `json:"signal_hash"`
}

type verifyResponse struct {
	Success       bool   `json:"success"`
	NullifierHash string `json:"nullifier_hash"`
}

type verifyError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// NewClient builds a client for cfg. An empty endpoint uses DefaultEndpoint.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "humanpoll")

	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}

	return &Client{http: c, appID: cfg.AppID}
}

// Verify checks proof for action with the given signal. A proof the service
// rejects is a negative Verification with a nil error; errors are reserved
// for transport failures and server-side problems, wrapped in
// ErrUnavailable.
func (c *Client) Verify(ctx context.Context, proof models.Proof, action, signal string) (models.Verification, error) {
	var ok verifyResponse
	var apiErr verifyError

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("app_id", c.appID).
		SetBody(verifyRequest{
			NullifierHash:     proof.NullifierHash,
			MerkleRoot:        proof.MerkleRoot,
			Proof:             proof.Proof,
			VerificationLevel: proof.VerificationLevel,
			Action:            action,
			SignalHash:        HashToField(signal),
		}).
		SetResult(&ok).
		SetError(&apiErr).
		Post("/api/v2/verify/{app_id}")
	if err != nil {
		return models.Verification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.IsSuccess():
		nullifier := ok.NullifierHash
		if nullifier == "" {
			nullifier = proof.NullifierHash
		}
		return models.Verification{Success: ok.Success, NullifierHash: nullifier}, nil

	case resp.StatusCode() >= http.StatusInternalServerError:
		return models.Verification{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())

	default:
		code := apiErr.Code
		if code == "" {
			code = http.StatusText(resp.StatusCode())
		}
		return models.Verification{Success: false, Code: code}, nil
	}
}

// HashToField hashes signal the way World ID expects signal_hash: keccak256
// of the raw bytes, shifted right by 8 bits so it fits the proof field,
// rendered as 0x-prefixed 32-byte hex.
func HashToField(signal string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signal))
	sum := h.Sum(nil)

	var field [32]byte
	copy(field[1:], sum[:31])

	return "0x" + hex.EncodeToString(field[:])
}
