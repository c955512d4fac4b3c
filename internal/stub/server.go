// Package stub is an in-process development backend speaking the same
// wire contract as the production service. It backs the stubserver
// command and the end-to-end tests; nothing here is production code.
package stub

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/zenfield/firetrack/api"
)

// Account is one seeded login.
type Account struct {
	Username     string
	PasswordHash []byte // bcrypt
	Email        string
	Role         string
	Permissions  []string
	ProjectID    string
}

// Config seeds the stub's state.
type Config struct {
	JWTSecret  []byte
	SessionTTL time.Duration
	Accounts   []Account
	Assets     []api.Asset
	// Opaque maps encrypted QR payloads to asset ids for the decrypt
	// endpoint.
	Opaque map[string]int64
	// RequireApproval makes updates from non-admin sessions answer with
	// the approval-pending envelope instead of the record.
	RequireApproval bool
}

// Server is the stub backend. Safe for concurrent use.
type Server struct {
	cfg  Config
	echo *echo.Echo

	mu          sync.Mutex
	assets      map[int64]*api.Asset
	inspections map[int64][]api.Inspection
	nextID      int64
}

// New builds a stub from cfg. JWTSecret is required.
func New(cfg Config) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	s := &Server{
		cfg:         cfg,
		assets:      make(map[int64]*api.Asset),
		inspections: make(map[int64][]api.Inspection),
		nextID:      1,
	}
	for i := range cfg.Assets {
		a := cfg.Assets[i]
		s.assets[a.ID] = &a
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.POST("/auth/login", s.login)
	e.POST("/extinguisher/add", s.addAsset)
	e.GET("/extinguisher/:id", s.getAsset)
	e.PUT("/extinguisher/:id", s.updateAsset)
	e.GET("/mobile/inspection/:id/inspections", s.listInspections)
	e.POST("/mobile/extinguisher/decrypt", s.decrypt)

	auth := e.Group("", s.requireBearer)
	auth.POST("/mobile/extinguisher/add", s.addAsset)
	auth.POST("/inspection/add", s.addInspection)
	auth.POST("/mobile/extinguisher/replace", s.replace)
	auth.POST("/inspection/:id/photo", s.attachPhoto)

	s.echo = e
	return s
}

// Handler exposes the stub as an http.Handler for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until the process ends.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

func (s *Server) login(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}

	var account *Account
	for i := range s.cfg.Accounts {
		if s.cfg.Accounts[i].Username == in.Username {
			account = &s.cfg.Accounts[i]
			break
		}
	}
	if account == nil || bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(in.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
	}

	now := time.Now().UTC().Truncate(time.Second)
	expires := now.Add(s.cfg.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  account.Username,
		"role": account.Role,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	})
	signed, err := token.SignedString(s.cfg.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "token signing failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": signed,
		"user": api.User{
			Username:    account.Username,
			Email:       account.Email,
			Role:        account.Role,
			Permissions: account.Permissions,
			ProjectID:   account.ProjectID,
		},
		"session": api.SessionWindow{IssuedAt: now, ExpiresAt: expires},
	})
}

func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := s.bearerRole(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing or invalid token"})
		}
		c.Set("role", role)
		return next(c)
	}
}

// bearerRole validates the Authorization header and returns the role
// claim.
func (s *Server) bearerRole(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	role, _ := claims["role"].(string)
	return role, true
}

func (s *Server) decrypt(c echo.Context) error {
	var in struct {
		EncryptedData string `json:"encryptedData"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}
	id, ok := s.cfg.Opaque[in.EncryptedData]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Invalid QR code"})
	}
	s.mu.Lock()
	asset, ok := s.assets[id]
	var out api.Asset
	if ok {
		out = *asset
	}
	s.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Extinguisher not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) getAsset(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	asset, ok := s.assets[id]
	var out api.Asset
	if ok {
		out = *asset
	}
	s.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Extinguisher not found"})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addAsset(c echo.Context) error {
	var in api.CreateAssetInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assets {
		if a.Location == in.Location && a.Block == in.Block && a.Floor == in.Floor {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Duplicate extinguisher entry"})
		}
	}
	asset := &api.Asset{
		ID:               s.nextID,
		Location:         in.Location,
		Block:            in.Block,
		Area:             in.Area,
		Floor:            in.Floor,
		Country:          in.Country,
		State:            in.State,
		City:             in.City,
		TypeCapacity:     in.TypeCapacity,
		ManufactureYear:  in.ManufactureYear,
		InstallationYear: in.InstallationYear,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
	}
	s.nextID++
	s.assets[asset.ID] = asset
	return c.JSON(http.StatusCreated, *asset)
}

func (s *Server) updateAsset(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var in api.UpdateAssetInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}

	if s.cfg.RequireApproval {
		role, _ := s.bearerRole(c)
		if role != "admin" {
			return c.JSON(http.StatusOK, echo.Map{
				"status":  "Approve Pending",
				"message": "Update queued for admin approval",
			})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.assets[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Extinguisher not found"})
	}
	asset.CylinderCondition = in.CylinderCondition
	asset.HoseCondition = in.HoseCondition
	asset.StandCondition = in.StandCondition
	asset.FullWeight = in.FullWeight
	asset.ActualWeight = in.ActualWeight
	asset.RefilledDate = in.RefilledDate
	asset.NextRefillDate = in.NextRefillDate
	asset.ServicedDate = in.ServicedDate
	asset.NextServiceDate = in.NextServiceDate
	return c.JSON(http.StatusOK, *asset)
}

func (s *Server) addInspection(c echo.Context) error {
	var in api.InspectionInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[in.ExtinguisherID]; !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Extinguisher not found"})
	}
	rec := api.Inspection{
		ID:                 int64(len(s.inspections[in.ExtinguisherID]) + 1),
		ExtinguisherID:     in.ExtinguisherID,
		InspectionDate:     in.InspectionDate,
		InspectorName:      in.InspectorName,
		Notes:              in.Notes,
		Status:             in.Status,
		NextInspectionDate: in.NextInspectionDate,
	}
	s.inspections[in.ExtinguisherID] = append(s.inspections[in.ExtinguisherID], rec)
	return c.JSON(http.StatusCreated, rec)
}

func (s *Server) listInspections(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	list := make([]api.Inspection, len(s.inspections[id]))
	copy(list, s.inspections[id])
	s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"inspections": list})
}

func (s *Server) replace(c echo.Context) error {
	var in api.ReplacementInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}
	if in.OriginalExtinguisherID == in.ReplacementExtinguisherID {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "replacement must differ from original"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[in.OriginalExtinguisherID]; !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Extinguisher not found"})
	}
	if _, ok := s.assets[in.ReplacementExtinguisherID]; !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Extinguisher not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Replacement recorded"})
}

func (s *Server) attachPhoto(c echo.Context) error {
	if _, err := c.FormFile("photo"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "photo file required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Photo uploaded"})
}

// HashPassword is a seeding helper for commands and tests.
func HashPassword(plain string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return hash
}
