package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// queryParam binds the form-style query parameter name into dest, writing a
// 422 on failure. It reports whether binding succeeded. An optional parameter
// needs a pointer to a pointer (or to a slice pointer) as dest, which stays
// nil when the parameter is absent.
func queryParam(w http.ResponseWriter, r *http.Request, name string, required bool, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		requestBody(w, "invalid query parameter "+name+": "+err.Error())
		return false
	}
	return true
}

// pathParam binds the simple-style path parameter name into dest,
// writing a 422 on failure. It reports whether binding succeeded.
func pathParam(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		requestBody(w, "invalid path parameter "+name+": "+err.Error())
		return false
	}
	return true
}
