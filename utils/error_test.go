package utils_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mmrentals/rentdesk_backend/utils"
	"gorm.io/gorm"
)

func TestHTTPStatus_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{utils.ValidationError("bad input"), http.StatusBadRequest},
		{utils.UnauthorizedError("no token"), http.StatusUnauthorized},
		{utils.ForbiddenError("insufficient role"), http.StatusForbidden},
		{utils.NotFoundError("missing"), http.StatusNotFound},
		{utils.ConflictError("duplicate"), http.StatusConflict},
		{utils.InternalError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := utils.HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindOf_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading room: %w", utils.ConflictError("room is under an active contract"))
	if utils.KindOf(wrapped) != utils.KindConflict {
		t.Fatalf("wrapped conflict: kind = %v", utils.KindOf(wrapped))
	}

	// gorm's sentinel maps to NotFound without explicit wrapping.
	if utils.KindOf(gorm.ErrRecordNotFound) != utils.KindNotFound {
		t.Fatalf("gorm.ErrRecordNotFound should map to not found")
	}
	if utils.KindOf(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) != utils.KindNotFound {
		t.Fatalf("wrapped gorm.ErrRecordNotFound should map to not found")
	}
}
