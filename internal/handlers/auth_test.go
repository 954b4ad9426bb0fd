package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/yukikurage/task-tracker-api/internal/dto"
)

func (suite *HandlerTestSuite) TestRegister_ReturnsTokenAndUser() {
	w := suite.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "carol",
		"password": "secret",
		"email":    "Carol@Example.com",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var auth dto.AuthDTO
	env := suite.decode(w, &auth)
	suite.True(env.Success)
	suite.NotEmpty(auth.Token)
	suite.Equal("carol", auth.User.Username)
	suite.Equal("carol@example.com", auth.User.Email)
	suite.EqualValues("user", auth.User.Role)

	// the returned token authenticates
	claims, err := suite.tokens.Parse(auth.Token)
	suite.Require().NoError(err)
	suite.Equal(auth.User.ID, claims.UserID)
}

func (suite *HandlerTestSuite) TestRegister_Errors() {
	w := suite.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "secret",
	}, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ALREADY_EXISTS", suite.decode(w, nil).Code)

	w = suite.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "mallory",
		"password": "secret",
		"role":     "admin",
	}, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "x"}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	env := suite.decode(w, nil)
	suite.False(env.Success)
	suite.Equal("INVALID_INPUT", env.Code)
	suite.Contains(env.Details, "username")
	suite.Contains(env.Details, "password")
}

func (suite *HandlerTestSuite) TestLogin_SetsSessionCookie() {
	w := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "secret",
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var auth dto.AuthDTO
	suite.decode(w, &auth)
	suite.Equal(suite.alice.ID, auth.User.ID)

	cookies := w.Result().Cookies()
	suite.Require().NotEmpty(cookies, "expected session cookie to be set")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	suite.router.ServeHTTP(me, req)
	suite.Require().Equal(http.StatusOK, me.Code, me.Body.String())

	var user dto.UserDTO
	suite.decode(me, &user)
	suite.Equal("alice", user.Username)
}

func (suite *HandlerTestSuite) TestLogin_InvalidCredentials() {
	w := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("INVALID_CREDENTIALS", suite.decode(w, nil).Code)
}

func (suite *HandlerTestSuite) TestMeAndUsers() {
	w := suite.request(http.MethodGet, "/api/auth/me", nil, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserDTO
	suite.decode(w, &me)
	suite.Equal("bob", me.Username)

	w = suite.request(http.MethodGet, "/api/auth/users", nil, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var users []dto.UserDTO
	env := suite.decode(w, &users)
	suite.Require().NotNil(env.Count)
	suite.Equal(3, *env.Count)
	suite.Equal([]string{"alice", "bob", "root"}, []string{users[0].Username, users[1].Username, users[2].Username})
}

func (suite *HandlerTestSuite) TestLogout() {
	w := suite.request(http.MethodPost, "/api/auth/logout", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Logged out successfully", suite.decode(w, nil).Message)
}

func (suite *HandlerTestSuite) TestHealthAndUnknownRoute() {
	for _, path := range []string{"/health", "/api/health"} {
		w := suite.request(http.MethodGet, path, nil, nil)
		suite.Equal(http.StatusOK, w.Code)
		suite.True(suite.decode(w, nil).Success)
	}

	w := suite.request(http.MethodGet, "/api/nope", nil, suite.alice)
	suite.Equal(http.StatusNotFound, w.Code)
	env := suite.decode(w, nil)
	suite.False(env.Success)
	suite.Equal("NOT_FOUND", env.Code)
}
