package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/config"
	"alerta/snmptrap/logger"
)

func NewTimeoutClient(connectTimeout time.Duration, readWriteTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Dial: timeoutDialer(connectTimeout, readWriteTimeout),
		},
	}
}

func timeoutDialer(cTimeout time.Duration, rwTimeout time.Duration) func(net, addr string) (c net.Conn, err error) {
	return func(netw, addr string) (net.Conn, error) {
		conn, err := net.DialTimeout(netw, addr, cTimeout)
		if err != nil {
			return nil, err
		}
		conn.SetDeadline(time.Now().Add(rwTimeout))
		return conn, nil
	}
}

// APISender posts JSON documents to the alert API.
type APISender struct {
	endpoint   string
	apiKey     string
	client     *http.Client
	retryStart time.Duration
	maxCount   int
	maxTime    time.Duration
	log        logger.Logger
}

func NewAPISender(cfg config.Config, lg logger.Logger) *APISender {
	return &APISender{
		endpoint:   cfg.GetAPIEndpoint(),
		apiKey:     cfg.GetAPIKey(),
		client:     NewTimeoutClient(cfg.GetAPITimeout(), cfg.GetAPITimeout()),
		retryStart: cfg.GetRetryStart(),
		maxCount:   cfg.GetRetryMaxCount(),
		maxTime:    cfg.GetAPITimeout() * time.Duration(cfg.GetRetryMaxCount()+1),
		log:        lg,
	}
}

func (s *APISender) SendAlert(ctx context.Context, a *alert.Alert) error {
	return s.post(ctx, "/alert", a)
}

func (s *APISender) SendHeartbeat(ctx context.Context, hb *alert.Heartbeat) error {
	return s.post(ctx, "/heartbeat", hb)
}

func (s *APISender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *APISender) post(ctx context.Context, path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding request")
	}
	url := s.endpoint + path

	retry := NewRetryModule(s.retryStart, s.log)
	if err := retry.SetMaxCount(s.maxCount); err != nil {
		return err
	}
	if err := retry.SetMaxDuration(s.maxTime); err != nil {
		return err
	}
	return retry.ExecuteContext(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("Authorization", "Key "+s.apiKey)
		}
		response, err := s.client.Do(req)
		if err != nil {
			return errors.Wrapf(err, "POST %s", url)
		}
		defer response.Body.Close()
		contents, err := ioutil.ReadAll(response.Body)
		if err != nil {
			s.log.Warning(fmt.Sprintf("%s", err))
		}
		if response.StatusCode < 200 || response.StatusCode > 299 {
			return errors.Errorf("POST %s: %s: %s", url, response.Status, bytes.TrimSpace(contents))
		}
		s.log.Debug(fmt.Sprintf("POST %s: %s", url, response.Status))
		return nil
	})
}
