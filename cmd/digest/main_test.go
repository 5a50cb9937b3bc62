package main

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BuildRequestSuite struct {
	suite.Suite
}

func (s *BuildRequestSuite) TestRequiresSecret() {
	_, err := buildRequest("http://localhost:8080", "", "weekly", false, "", "")
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "secret")
}

func (s *BuildRequestSuite) TestBuildsRequest() {
	req, err := buildRequest("http://localhost:8080", "shh", "daily", true, "", "")
	s.Require().NoError(err)

	s.Assert().Equal("POST", req.Method)
	s.Assert().Equal("http://localhost:8080/api/internal/digest", req.URL.String())
	s.Assert().Equal("shh", req.Header.Get("X-Digest-Secret"))
	s.Assert().Equal("application/json", req.Header.Get("Content-Type"))

	payload, err := io.ReadAll(req.Body)
	s.Require().NoError(err)

	var body digestRequest
	s.Require().NoError(json.Unmarshal(payload, &body))
	s.Assert().Equal("daily", body.Frequency)
	s.Assert().True(body.SendEmail)
	s.Assert().Nil(body.PeriodStart)
	s.Assert().Nil(body.PeriodEnd)
}

func (s *BuildRequestSuite) TestParsesPeriod() {
	req, err := buildRequest("http://localhost:8080", "shh", "weekly", false,
		"2026-08-01T00:00:00Z", "2026-08-08T00:00:00Z")
	s.Require().NoError(err)

	payload, err := io.ReadAll(req.Body)
	s.Require().NoError(err)

	var body digestRequest
	s.Require().NoError(json.Unmarshal(payload, &body))
	s.Require().NotNil(body.PeriodStart)
	s.Require().NotNil(body.PeriodEnd)
	s.Assert().Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), body.PeriodStart.UTC())
	s.Assert().Equal(7*24*time.Hour, body.PeriodEnd.Sub(*body.PeriodStart))
}

func (s *BuildRequestSuite) TestRejectsBadPeriod() {
	_, err := buildRequest("http://localhost:8080", "shh", "weekly", false, "yesterday", "")
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "period-start")
}

func TestBuildRequestSuite(t *testing.T) {
	suite.Run(t, new(BuildRequestSuite))
}
