package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGetErrorType(t *testing.T) {
	Convey("Given HTTP error statuses", t, func() {
		So(getErrorType(http.StatusBadRequest), ShouldEqual, "client_error")
		So(getErrorType(http.StatusNotFound), ShouldEqual, "not_found")
		So(getErrorType(http.StatusConflict), ShouldEqual, "conflict")
		So(getErrorType(http.StatusUnprocessableEntity), ShouldEqual, "unprocessable")
		So(getErrorType(http.StatusInternalServerError), ShouldEqual, "server_error")
		So(getErrorType(http.StatusServiceUnavailable), ShouldEqual, "unavailable")
		So(getErrorType(http.StatusOK), ShouldEqual, "unknown")
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a wrapped handler", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusConflict, "training_in_progress", nil)
		}, "train")

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/train", nil))

		Convey("Then the status and body pass through", func() {
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(w.Body.String(), ShouldContainSubstring, `"message":"Conflict"`)
		})
	})
}
