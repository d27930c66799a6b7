package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/kozaktomas/petface/internal/catalog"
)

func newTestBreedsHandler(t *testing.T) *BreedsHandler {
	t.Helper()
	log, _ := test.NewNullLogger()
	return NewBreedsHandler(testRegistry(t), log)
}

func TestBreedsHandler_List(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		petType catalog.Species
		first   string
	}{
		{"default", "", catalog.Dog, "Golden Retriever"},
		{"dog", "?pet_type=dog", catalog.Dog, "Golden Retriever"},
		{"cat", "?pet_type=cat", catalog.Cat, "Persian"},
		{"upper case", "?pet_type=CAT", catalog.Cat, "Persian"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestBreedsHandler(t)

			req := httptest.NewRequest("GET", "/api/v1/breeds"+tc.query, nil)
			recorder := httptest.NewRecorder()

			handler.List(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)
			assertContentType(t, recorder, "application/json")

			var result BreedsResponse
			parseJSONResponse(t, recorder, &result)

			if result.PetType != tc.petType {
				t.Errorf("expected pet type '%s', got '%s'", tc.petType, result.PetType)
			}
			if result.TotalBreeds != 8 {
				t.Errorf("expected 8 breeds, got %d", result.TotalBreeds)
			}
			if len(result.Breeds) != result.TotalBreeds || len(result.BreedDetails) != result.TotalBreeds {
				t.Errorf("expected names and details to match total, got %d names and %d details",
					len(result.Breeds), len(result.BreedDetails))
			}
			if len(result.Breeds) > 0 && result.Breeds[0] != tc.first {
				t.Errorf("expected first breed '%s', got '%s'", tc.first, result.Breeds[0])
			}
			for _, b := range result.BreedDetails {
				if len(b.Features) == 0 {
					t.Errorf("expected face features for %s", b.Name)
				}
			}
		})
	}
}

func TestBreedsHandler_List_UnknownPetType(t *testing.T) {
	handler := newTestBreedsHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/breeds?pet_type=hamster", nil)
	recorder := httptest.NewRecorder()

	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "pet_type must be one of: dog, cat")
}

func TestBreedsHandler_Get(t *testing.T) {
	tests := []struct {
		name    string
		petType string
		breed   string
		want    string
	}{
		{"exact", "dog", "Golden Retriever", "Golden Retriever"},
		{"case insensitive", "dog", "golden retriever", "Golden Retriever"},
		{"surrounding space", "cat", "  maine coon ", "Maine Coon"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestBreedsHandler(t)

			req := httptest.NewRequest("GET", "/api/v1/breeds/"+tc.petType+"/x", nil)
			req = requestWithChiParams(req, map[string]string{
				"petType": tc.petType,
				"name":    tc.breed,
			})
			recorder := httptest.NewRecorder()

			handler.Get(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)

			var result catalog.Breed
			parseJSONResponse(t, recorder, &result)

			if result.Name != tc.want {
				t.Errorf("expected breed '%s', got '%s'", tc.want, result.Name)
			}
			if result.Description == "" {
				t.Error("expected description")
			}
		})
	}
}

func TestBreedsHandler_Get_NotFound(t *testing.T) {
	handler := newTestBreedsHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/breeds/cat/Poodle", nil)
	req = requestWithChiParams(req, map[string]string{
		"petType": "cat",
		"name":    "Poodle",
	})
	recorder := httptest.NewRecorder()

	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "breed not found")
}

func TestBreedsHandler_Get_UnknownPetType(t *testing.T) {
	handler := newTestBreedsHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/breeds/parrot/Poodle", nil)
	req = requestWithChiParams(req, map[string]string{
		"petType": "parrot",
		"name":    "Poodle",
	})
	recorder := httptest.NewRecorder()

	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}
