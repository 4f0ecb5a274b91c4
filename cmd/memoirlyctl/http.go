package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

func client() *resty.Client {
	c := resty.New().
		SetBaseURL(apiFlag).
		SetTimeout(30 * time.Second)
	if tokenFlag != "" {
		c.SetAuthToken(tokenFlag)
	}
	return c
}

// check turns non-2xx responses into errors carrying the server's body.
func check(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doGet(path string, query map[string]string) ([]byte, error) {
	req := client().R()
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	return check(req.Get(path))
}

func doPostJSON(path string, payload interface{}) ([]byte, error) {
	req := client().R()
	if payload != nil {
		req.SetBody(payload)
	}
	return check(req.Post(path))
}

func doPatchJSON(path string, payload interface{}) ([]byte, error) {
	return check(client().R().SetBody(payload).Patch(path))
}

func doPutJSON(path string, payload interface{}) ([]byte, error) {
	return check(client().R().SetBody(payload).Put(path))
}

func doDelete(path string) error {
	_, err := check(client().R().Delete(path))
	return err
}
