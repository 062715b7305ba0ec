package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"absences/internal/referencedata/handler/mocks"
	"absences/internal/referencedata/models"
	"absences/internal/referencedata/reasonpath"
	"absences/internal/referencedata/refdatatest"
	"absences/internal/referencedata/service"
	"absences/pkg/domain"
	dErrors "absences/pkg/domain-errors"
	"absences/pkg/platform/middleware/admin"
	"absences/pkg/platform/middleware/request"
	"absences/pkg/testutil"
)

const adminToken = "secret-token"

type HandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	router      http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.setup()
}

func (s *HandlerSuite) SetupSubTest() {
	s.setup()
}

func (s *HandlerSuite) setup() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(s.mockService, logger)
	r := chi.NewRouter()
	r.Use(request.RequestID)
	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(adminToken, logger))
		h.RegisterAdmin(r)
	})
	s.router = r
}

// resolved builds SR > RDR > PW > AGRI with every level selected.
func resolved() *service.Categorisation {
	b := refdatatest.New()
	typ := b.Item(domain.DomainAbsenceType, "SR", "Standard ROTL", refdatatest.Next(domain.DomainAbsenceSubType))
	sub := b.Item(domain.DomainAbsenceSubType, "RDR", "RDR", refdatatest.Next(domain.DomainAbsenceReasonCategory))
	cat := b.Item(domain.DomainAbsenceReasonCategory, "PW", "Paid work", refdatatest.Next(domain.DomainAbsenceReason))
	reason := b.Item(domain.DomainAbsenceReason, "AGRI", "Agriculture")
	sel, _ := models.NewSelection(typ, sub, cat, reason)
	res := reasonpath.Resolve(sel, nil)
	return &service.Categorisation{
		Path:       res.Path,
		Breadcrumb: "Standard ROTL > RDR > Paid work > Agriculture",
		Selection:  res.Selection,
	}
}

func (s *HandlerSuite) TestFilters() {
	s.Run("returns the filter lists", func() {
		s.mockService.EXPECT().Filters(gomock.Any()).Return(&models.CategorisationFilters{
			Types:     []models.Option{{DomainCode: domain.DomainAbsenceType, Code: "SR", Description: "Standard ROTL"}},
			SubTypes:  []models.Option{},
			Reasons:   []models.Option{},
			WorkTypes: []models.Option{},
		}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/absence-categorisation/filters", nil))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{
			"types": [{"domainCode": "ABSENCE_TYPE", "code": "SR", "description": "Standard ROTL"}],
			"subTypes": [],
			"reasons": [],
			"workTypes": []
		}`, rr.Body.String())
	})

	s.Run("malformed graph is a 500 without detail", func() {
		s.mockService.EXPECT().Filters(gomock.Any()).Return(nil,
			dErrors.New(dErrors.CodeInternal, "categorisation graph is malformed"))

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/absence-categorisation/filters", nil))

		body := testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		s.NotContains(body, "error_description")
	})
}

func (s *HandlerSuite) TestReasonPath() {
	s.Run("normalises codes and returns the path", func() {
		s.mockService.EXPECT().
			ResolveReasonPath(gomock.Any(), models.Codes{Type: "SR", SubType: "RDR", Reason: "AGRI"}).
			Return(resolved(), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/absence-categorisation/reason-path", map[string]string{
			"absenceTypeCode":    " sr ",
			"absenceSubTypeCode": "rdr",
			"absenceReasonCode":  "agri",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[struct {
			Path []struct {
				DomainCode string `json:"domainCode"`
				Code       string `json:"code"`
			} `json:"path"`
			Breadcrumb string `json:"breadcrumb"`
			Items      []struct {
				Code string `json:"code"`
			} `json:"items"`
		}](s.T(), rr)
		s.Require().Len(resp.Path, 4)
		s.Equal("ABSENCE_TYPE", resp.Path[0].DomainCode)
		s.Equal("AGRI", resp.Path[3].Code)
		s.Equal("Standard ROTL > RDR > Paid work > Agriculture", resp.Breadcrumb)
		s.Len(resp.Items, 4)
	})

	s.Run("empty body is a validation error", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/absence-categorisation/reason-path", map[string]string{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown fields are rejected", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/absence-categorisation/reason-path",
			`{"absenceReasonCode": "AGRI", "reason": "x"}`)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("unknown code is a 404", func() {
		s.mockService.EXPECT().ResolveReasonPath(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "unknown ABSENCE_REASON code NOPE"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/absence-categorisation/reason-path",
			map[string]string{"absenceReasonCode": "NOPE"})
		rr := testutil.DoRequest(s.router, req)

		body := testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
		s.Equal("unknown ABSENCE_REASON code NOPE", body["error_description"])
	})
}

func (s *HandlerSuite) TestValidate() {
	s.Run("resolved categorisation", func() {
		s.mockService.EXPECT().ValidateCategorisation(gomock.Any(), gomock.Any()).Return(resolved(), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/absence-categorisation/validate",
			map[string]string{"absenceTypeCode": "SR", "absenceSubTypeCode": "RDR", "absenceReasonCode": "AGRI"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("ambiguous category is a 409 with the option count", func() {
		reason := refdatatest.New().Item(domain.DomainAbsenceReason, "HOUSE", "Housing")
		s.mockService.EXPECT().ValidateCategorisation(gomock.Any(), models.Codes{Reason: "HOUSE"}).
			Return(nil, &models.AbsenceCategorisationError{Previous: reason, OptionCount: 2})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/absence-categorisation/validate",
			map[string]string{"absenceReasonCode": "house"})
		rr := testutil.DoRequest(s.router, req)

		body := testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "absence_categorisation")
		s.InDelta(2, body["option_count"], 0)
		s.Contains(body["error_description"], "ABSENCE_REASON_CATEGORY")
	})
}

func (s *HandlerSuite) TestDomainOptions() {
	s.Run("lists a hierarchy domain", func() {
		next := domain.DomainAbsenceSubType
		s.mockService.EXPECT().HierarchyOptions(gomock.Any(), domain.DomainAbsenceType).Return([]models.DomainOption{
			{DomainCode: domain.DomainAbsenceType, Code: "SR", Description: "Standard ROTL", NextDomain: &next},
		}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/absence-categorisation/ABSENCE_TYPE", nil))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{
			"domainCode": "ABSENCE_TYPE",
			"options": [{"domainCode": "ABSENCE_TYPE", "code": "SR", "description": "Standard ROTL", "nextDomain": "ABSENCE_SUB_TYPE"}]
		}`, rr.Body.String())
	})

	s.Run("unknown domain is a 400", func() {
		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/absence-categorisation/WIDGETS", nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestSelectedOptions() {
	s.Run("returns the selected item and its options", func() {
		s.mockService.EXPECT().Options(gomock.Any(), domain.DomainAbsenceSubType, "RDR").Return(&service.DomainOptions{
			Selected: models.DomainOption{DomainCode: domain.DomainAbsenceSubType, Code: "RDR", Description: "RDR"},
			Options: []models.DomainOption{
				{DomainCode: domain.DomainAbsenceReasonCategory, Code: "PW", Description: "Paid work"},
			},
		}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/absence-categorisation/ABSENCE_SUB_TYPE/rdr", nil))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[SelectedOptionsResponse](s.T(), rr)
		s.Equal("RDR", resp.Selected.Code)
		s.Require().Len(resp.Options, 1)
		s.Equal("PW", resp.Options[0].Code)
	})

	s.Run("unknown code is a 404", func() {
		s.mockService.EXPECT().Options(gomock.Any(), domain.DomainAbsenceSubType, "NOPE").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "unknown ABSENCE_SUB_TYPE code NOPE"))

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/absence-categorisation/ABSENCE_SUB_TYPE/NOPE", nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestReferenceData() {
	s.Run("lists any domain", func() {
		item := refdatatest.New().Item(domain.DomainTransport, "CAR", "Car")
		s.mockService.EXPECT().ListDomain(gomock.Any(), domain.DomainTransport).Return([]models.ReferenceData{item}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/reference-data/TRANSPORT", nil))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[ReferenceDataResponse](s.T(), rr)
		s.Equal("TRANSPORT", resp.DomainCode)
		s.Require().Len(resp.Items, 1)
		s.Equal(item.ID, resp.Items[0].ID)
	})

	s.Run("unavailable store is a 503", func() {
		s.mockService.EXPECT().ListDomain(gomock.Any(), domain.DomainTransport).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "reference data is unavailable"))

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/reference-data/TRANSPORT", nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
	})
}

func (s *HandlerSuite) TestRefresh() {
	s.Run("requires the admin token", func() {
		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodPost, "/admin/reference-data/refresh", nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("invalidates the catalogue", func() {
		s.mockService.EXPECT().Invalidate(gomock.Any(), "admin").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/admin/reference-data/refresh", nil)
		req.Header.Set(admin.HeaderAdminToken, adminToken)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("cache failure is a 503", func() {
		s.mockService.EXPECT().Invalidate(gomock.Any(), "admin").
			Return(dErrors.New(dErrors.CodeUnavailable, "failed to invalidate catalogue cache"))

		req := httptest.NewRequest(http.MethodPost, "/admin/reference-data/refresh", nil)
		req.Header.Set(admin.HeaderAdminToken, adminToken)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	})
}
