//go:build acceptance

package acceptance

import "net/http"

func (s *Suite) TestHealth() {
	resp, body := s.doJSON(http.MethodGet, "/health", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("pass", body["status"])
}

func (s *Suite) TestMetrics() {
	resp, err := http.Get(s.BaseURL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
