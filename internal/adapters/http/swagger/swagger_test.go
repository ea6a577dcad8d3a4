package swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a mux with the docs routes", t, func() {
		mux := http.NewServeMux()
		Register(mux)

		convey.Convey("Then it should serve /openapi.yaml", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
			convey.So(w.Body.Bytes(), convey.ShouldResemble, OpenAPI)
		})

		convey.Convey("And it should serve /api-docs", func() {
			req := httptest.NewRequest(http.MethodGet, "/api-docs", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "ViperDraft API Docs")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
		})

		convey.Convey("And other methods should be rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		doc, err := yaml.Parser().Unmarshal(OpenAPI)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then every registered route should be documented", func() {
			paths, ok := doc["paths"].(map[string]interface{})
			convey.So(ok, convey.ShouldBeTrue)

			routes := map[string][]string{
				"/healthz":             {"get"},
				"/stats":               {"get"},
				"/candidates":          {"post"},
				"/candidates/template": {"get"},
				"/draft":               {"get", "post", "delete"},
				"/draft/pick":          {"post"},
				"/draft/undo":          {"post"},
				"/draft/solve":         {"post"},
				"/draft/swap":          {"post"},
				"/draft/reset":         {"post"},
				"/draft/risk":          {"get"},
				"/draft/export":        {"get"},
			}
			convey.So(len(paths), convey.ShouldEqual, len(routes))
			for path, methods := range routes {
				ops, ok := paths[path].(map[string]interface{})
				convey.So(ok, convey.ShouldBeTrue)
				for _, m := range methods {
					convey.So(ops, convey.ShouldContainKey, m)
				}
			}
		})

		convey.Convey("And the import preview flag should be documented", func() {
			paths, _ := doc["paths"].(map[string]interface{})
			candidates, _ := paths["/candidates"].(map[string]interface{})
			post, _ := candidates["post"].(map[string]interface{})
			params, ok := post["parameters"].([]interface{})
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(params, convey.ShouldHaveLength, 1)
			param, _ := params[0].(map[string]interface{})
			convey.So(param["name"], convey.ShouldEqual, "preview")

			schemas, _ := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})
			convey.So(schemas, convey.ShouldContainKey, "PreviewResponse")
		})
	})
}

func TestSwaggerHandlerWithNilMux(t *testing.T) {
	convey.Convey("Given a nil mux", t, func() {
		convey.So(func() { Register(nil) }, convey.ShouldPanic)
	})
}
