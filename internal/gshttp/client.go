/*
 * Copyright © 2025 Kaleido, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
 * an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package gshttp is a thin wrapper around resty with the SDK's URL
// composition and GalaChain error-envelope decoding.
package gshttp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
)

// APIError is returned for any non-2xx response, carrying the GalaChain
// error key when the body contains the standard error envelope.
type APIError struct {
	StatusCode int
	ErrorKey   string
	Message    string
	URL        string
	Body       []byte
	err        error
}

func (e *APIError) Error() string {
	return e.err.Error()
}

type Client struct {
	client *resty.Client
}

func New(ctx context.Context, conf *gsconf.HTTPConfig) *Client {
	client := resty.New().
		SetTimeout(confutil.DurationMin(conf.RequestTimeout, 0, *gsconf.Defaults.HTTP.RequestTimeout)).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", confutil.StringNotEmpty(conf.UserAgent, *gsconf.Defaults.HTTP.UserAgent))
	return &Client{client: client}
}

func buildURL(baseURL, basePath, endpoint string) string {
	return strings.TrimRight(baseURL, "/") + basePath + endpoint
}

// Post sends a JSON body and decodes the JSON response into result (which
// may be nil to discard the body).
func (c *Client) Post(ctx context.Context, baseURL, basePath, endpoint string, body interface{}, result interface{}) error {
	url := buildURL(baseURL, basePath, endpoint)
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	return c.handleResponse(ctx, url, resp, err, result)
}

func (c *Client) Get(ctx context.Context, baseURL, basePath, endpoint string, params map[string]string, result interface{}) error {
	url := buildURL(baseURL, basePath, endpoint)
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
	return c.handleResponse(ctx, url, resp, err, result)
}

func (c *Client) handleResponse(ctx context.Context, url string, resp *resty.Response, err error, result interface{}) error {
	if err != nil {
		return i18n.WrapError(ctx, err, msgs.MsgRequestFailed, url, err)
	}
	if !resp.IsSuccess() {
		return c.errorFromResponse(ctx, url, resp)
	}
	if result != nil {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			log.L(ctx).Debugf("Failed to parse %d response from %s: %s", resp.StatusCode(), url, err)
			return i18n.NewError(ctx, msgs.MsgInvalidResponseShape, url)
		}
	}
	return nil
}

func (c *Client) errorFromResponse(ctx context.Context, url string, resp *resty.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		URL:        url,
		Body:       resp.Body(),
	}

	var envelope struct {
		Error fftypes.JSONObject `json:"error"`
	}
	if jsonErr := json.Unmarshal(resp.Body(), &envelope); jsonErr == nil && envelope.Error != nil {
		apiErr.ErrorKey = envelope.Error.GetString("ErrorKey")
		if apiErr.ErrorKey == "" {
			apiErr.ErrorKey = envelope.Error.GetString("errorKey")
		}
		apiErr.Message = envelope.Error.GetString("Message")
		if apiErr.Message == "" {
			apiErr.Message = envelope.Error.GetString("message")
		}
	}

	if apiErr.ErrorKey != "" && apiErr.Message != "" {
		apiErr.err = i18n.NewError(ctx, msgs.MsgGalaChainError, apiErr.ErrorKey, url, apiErr.Message)
	} else {
		apiErr.err = i18n.NewError(ctx, msgs.MsgUnexpectedHTTPError, resp.StatusCode(), url)
	}
	log.L(ctx).Debugf("HTTP %d from %s (errorKey=%s)", resp.StatusCode(), url, apiErr.ErrorKey)
	return apiErr
}
