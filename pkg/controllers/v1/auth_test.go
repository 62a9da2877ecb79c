package v1_test

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rupify/backend/test"
)

func (suite *TestSuiteStandard) TestAuthentication() {
	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
		suite.Require().Nil(err)
		return signed
	}

	valid := jwt.MapClaims{"sub": "user_auth", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name   string
		header string
	}{
		{"No header", ""},
		{"Not a bearer token", "Basic dXNlcjpwYXNz"},
		{"Empty bearer token", "Bearer "},
		{"Garbage", "Bearer not.a.token"},
		{"Wrong secret", "Bearer " + sign(jwt.SigningMethodHS256, []byte("other-secret"), valid)},
		{"Wrong algorithm", "Bearer " + sign(jwt.SigningMethodHS512, []byte(jwtSecret), valid)},
		{"Expired", "Bearer " + sign(jwt.SigningMethodHS256, []byte(jwtSecret), jwt.MapClaims{"sub": "user_auth", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"No expiry", "Bearer " + sign(jwt.SigningMethodHS256, []byte(jwtSecret), jwt.MapClaims{"sub": "user_auth"})},
		{"No subject", "Bearer " + sign(jwt.SigningMethodHS256, []byte(jwtSecret), jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}

			r := test.Request(suite.T(), suite.engine, http.MethodGet, "http://example.com/v1/accounts", "", headers)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
		})
	}
}

func (suite *TestSuiteStandard) TestAuthenticationValid() {
	r := suite.request("user_valid", http.MethodGet, "/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}
