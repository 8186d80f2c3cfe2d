package test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/portfolio/internal/adminclient"
)

var pngImage = append(
	[]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01"),
	bytes.Repeat([]byte{0}, 64)...,
)

func (s *IntegrationTestSuite) TestUpload() {
	ctx := context.Background()
	client, _ := s.newAdminClient()

	_, err := client.UploadImage(ctx, "logo.png", bytes.NewReader(pngImage))
	s.Require().ErrorIs(err, adminclient.ErrLoginRequired)

	_, err = client.Login(ctx, testAdminEmail, testAdminPassword)
	s.Require().NoError(err)

	url, err := client.UploadImage(ctx, "logo.png", bytes.NewReader(pngImage))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(url, serverEndpoint+"/media/portfolio-projects/"), url)
	s.True(strings.HasSuffix(url, ".png"), url)

	resp, err := s.httpClient.Get(url)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	stored, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(pngImage, stored)

	_, err = client.UploadImage(ctx, "notes.txt", strings.NewReader("plain text is not an image"))
	var apiErr *adminclient.APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusBadRequest, apiErr.StatusCode)
}
