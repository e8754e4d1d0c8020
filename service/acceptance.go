package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// decodeLines reads a JSON-lines body.
func decodeLines(body string) []interface{} {
	result := []interface{}{}
	d := json.NewDecoder(strings.NewReader(body))
	for {
		var item interface{}
		err := d.Decode(&item)
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		result = append(result, item)
	}
	return result
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create corpus", func(a *biff.A) {
		resp := apiRequest("POST", "/corpora").
			WithBodyJson(JSON{
				"name": "my-corpus",
			}).Do()
		Save(resp, "Create corpus", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedBody := JSON{
			"name":     "my-corpus",
			"strategy": "linked",
			"total":    0,
			"next_id":  0,
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedBody)

		a.Alternative("Create twice", func(a *biff.A) {
			resp := apiRequest("POST", "/corpora").
				WithBodyJson(JSON{
					"name": "my-corpus",
				}).Do()
			Save(resp, "Create corpus - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Retrieve corpus", func(a *biff.A) {
			resp := apiRequest("GET", "/corpora/my-corpus").Do()
			Save(resp, "Retrieve corpus", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("List corpora", func(a *biff.A) {
			resp := apiRequest("GET", "/corpora").Do()
			Save(resp, "List corpora", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{expectedBody})
		})

		a.Alternative("Drop corpus", func(a *biff.A) {
			resp := apiRequest("POST", "/corpora/my-corpus:drop").Do()
			Save(resp, "Drop corpus", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped corpus", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus").Do()
				Save(resp, "Get corpus - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "corpus not found")
			})
		})

		a.Alternative("Empty corpus has no first entry", func(a *biff.A) {
			resp := apiRequest("GET", "/corpora/my-corpus/first").Do()
			Save(resp, "First - empty corpus", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Add invalid document", func(a *biff.A) {
			resp := apiRequest("POST", "/corpora/my-corpus/entries").
				WithBodyString(`[1,2,3]`).Do()
			Save(resp, "Add - invalid document", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Add entries", func(a *biff.A) {

			myDocuments := []JSON{
				{"name": "Alfonso", "color": "red"},
				{"name": "Gerardo", "color": "blue"},
				{"name": "Carmen", "color": "red"},
			}

			body := ""
			for _, myDocument := range myDocuments {
				myDocument, _ := json.Marshal(myDocument)
				body += string(myDocument) + "\n"
			}
			resp := apiRequest("POST", "/corpora/my-corpus/entries").
				WithBodyString(body).Do()
			Save(resp, "Add entries", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{
				{"id": 0, "document": myDocuments[0]},
				{"id": 1, "document": myDocuments[1]},
				{"id": 2, "document": myDocuments[2]},
			})

			a.Alternative("List entries", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries").Do()
				Save(resp, "List entries", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqual(len(decodeLines(resp.BodyString())), 3)
			})

			a.Alternative("List entries with filter", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries").
					WithQuery("filter", `{"color":"red"}`).
					WithQuery("reverse", "true").
					WithQuery("limit", "10").
					Do()
				Save(resp, "List entries - filter and reverse", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{
					{"id": 2, "document": myDocuments[2]},
					{"id": 0, "document": myDocuments[0]},
				})
			})

			a.Alternative("List entries from id with skip", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries").
					WithQuery("from", "1").
					WithQuery("skip", "1").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{
					{"id": 2, "document": myDocuments[2]},
				})
			})

			a.Alternative("List entries with bad limit", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries").
					WithQuery("limit", "-1").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Get entry", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries/1").Do()
				Save(resp, "Get entry", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1, "document": myDocuments[1]})
			})

			a.Alternative("Get entry with invalid id", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries/abc").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("First and last", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/first").Do()
				Save(resp, "First entry", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 0, "document": myDocuments[0]})

				resp = apiRequest("GET", "/corpora/my-corpus/last").Do()
				Save(resp, "Last entry", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "document": myDocuments[2]})
			})

			a.Alternative("Next and prev", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/entries/0:next").Do()
				Save(resp, "Next entry", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1, "document": myDocuments[1]})

				resp = apiRequest("GET", "/corpora/my-corpus/entries/2:prev").Do()
				Save(resp, "Prev entry", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1, "document": myDocuments[1]})

				resp = apiRequest("GET", "/corpora/my-corpus/entries/2:next").Do()
				Save(resp, "Next entry - end of corpus", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Replace entry", func(a *biff.A) {
				resp := apiRequest("PUT", "/corpora/my-corpus/entries/1").
					WithBodyJson(JSON{"name": "Pedro"}).Do()
				Save(resp, "Replace entry", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"id":       1,
					"document": JSON{"name": "Pedro"},
					"previous": myDocuments[1],
				})

				resp = apiRequest("GET", "/corpora/my-corpus/entries/1:prev").Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 0, "document": myDocuments[0]})
			})

			a.Alternative("Replace missing entry", func(a *biff.A) {
				resp := apiRequest("PUT", "/corpora/my-corpus/entries/9").
					WithBodyJson(JSON{"name": "Pedro"}).Do()
				Save(resp, "Replace entry - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "index 9 not found")
			})

			a.Alternative("Remove entry", func(a *biff.A) {
				resp := apiRequest("DELETE", "/corpora/my-corpus/entries/1").Do()
				Save(resp, "Remove entry", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1, "document": myDocuments[1]})

				a.Alternative("Neighbours are linked", func(a *biff.A) {
					resp := apiRequest("GET", "/corpora/my-corpus/entries/0:next").Do()
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "document": myDocuments[2]})
				})

				a.Alternative("Remove twice", func(a *biff.A) {
					resp := apiRequest("DELETE", "/corpora/my-corpus/entries/1").Do()
					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})

				a.Alternative("Next of removed entry", func(a *biff.A) {
					resp := apiRequest("GET", "/corpora/my-corpus/entries/1:next").Do()
					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})

				a.Alternative("Ids are not reused", func(a *biff.A) {
					resp := apiRequest("POST", "/corpora/my-corpus/entries").
						WithBodyJson(JSON{"name": "Lucia"}).Do()
					biff.AssertEqual(resp.StatusCode, http.StatusCreated)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 3, "document": JSON{"name": "Lucia"}})
				})
			})

			a.Alternative("Set field", func(a *biff.A) {
				resp := apiRequest("POST", "/corpora/my-corpus/entries/0:setField").
					WithBodyJson(JSON{"path": "address.city", "value": "Madrid"}).Do()
				Save(resp, "Set field", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 0, "document": JSON{
					"name":    "Alfonso",
					"color":   "red",
					"address": JSON{"city": "Madrid"},
				}})

				a.Alternative("Get field", func(a *biff.A) {
					resp := apiRequest("GET", "/corpora/my-corpus/entries/0:getField").
						WithQuery("path", "address.city").Do()
					Save(resp, "Get field", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"path": "address.city", "value": "Madrid"})
				})

				a.Alternative("Get missing field", func(a *biff.A) {
					resp := apiRequest("GET", "/corpora/my-corpus/entries/0:getField").
						WithQuery("path", "address.zip").Do()

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})
			})

			a.Alternative("Set field with a large integer", func(a *biff.A) {
				resp := apiRequest("POST", "/corpora/my-corpus/entries/0:setField").
					WithBodyString(`{"path":"visits","value":9007199254740993}`).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertTrue(strings.Contains(resp.BodyString(), `"visits":9007199254740993`))

				resp = apiRequest("GET", "/corpora/my-corpus/entries/0:getField").
					WithQuery("path", "visits").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertTrue(strings.Contains(resp.BodyString(), `"value":9007199254740993`))
			})

			a.Alternative("Set field without value", func(a *biff.A) {
				resp := apiRequest("POST", "/corpora/my-corpus/entries/0:setField").
					WithBodyJson(JSON{"path": "visits"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Current", func(a *biff.A) {
				resp := apiRequest("GET", "/corpora/my-corpus/current").Do()
				Save(resp, "Current - not set", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": nil, "live": false})

				resp = apiRequest("PUT", "/corpora/my-corpus/current").
					WithBodyJson(JSON{"id": 2}).Do()
				Save(resp, "Set current", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "live": true})

				a.Alternative("Current survives removal", func(a *biff.A) {
					apiRequest("DELETE", "/corpora/my-corpus/entries/2").Do()

					resp := apiRequest("GET", "/corpora/my-corpus/current").Do()
					Save(resp, "Current - removed entry", ``)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "live": false})
				})

				a.Alternative("Clear current", func(a *biff.A) {
					resp := apiRequest("DELETE", "/corpora/my-corpus/current").Do()
					Save(resp, "Clear current", ``)
					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": nil, "live": false})
				})

				a.Alternative("Set current to missing entry", func(a *biff.A) {
					resp := apiRequest("PUT", "/corpora/my-corpus/current").
						WithBodyJson(JSON{"id": 42}).Do()
					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})
			})
		})
	})

	a.Alternative("Create sorted corpus", func(a *biff.A) {
		resp := apiRequest("POST", "/corpora").
			WithBodyJson(JSON{
				"name":     "sorted-corpus",
				"strategy": "sorted",
			}).Do()
		Save(resp, "Create corpus - sorted strategy", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqual(resp.BodyJsonMap()["strategy"], "sorted")

		a.Alternative("Walk sorted corpus", func(a *biff.A) {
			for _, name := range []string{"a", "b", "c"} {
				apiRequest("POST", "/corpora/sorted-corpus/entries").
					WithBodyJson(JSON{"name": name}).Do()
			}
			apiRequest("DELETE", "/corpora/sorted-corpus/entries/1").Do()

			resp := apiRequest("GET", "/corpora/sorted-corpus/entries/0:next").Do()
			biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "document": JSON{"name": "c"}})
		})
	})

	a.Alternative("Create corpus with unknown strategy", func(a *biff.A) {
		resp := apiRequest("POST", "/corpora").
			WithBodyJson(JSON{
				"name":     "other",
				"strategy": "skiplist",
			}).Do()
		Save(resp, "Create corpus - unknown strategy", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Create corpus with invalid name", func(a *biff.A) {
		resp := apiRequest("POST", "/corpora").
			WithBodyJson(JSON{
				"name": "../etc",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Add on not existing corpus", func(a *biff.A) {
		resp := apiRequest("POST", "/corpora/nope/entries").
			WithBodyJson(JSON{"id": "my-id"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}
