package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/server-soundboard/pkg/retrylimit"
)

// httpError exposes the status of a REST failure to retrylimit.
type httpError struct {
	err  error
	code int
}

func (e *httpError) Error() string   { return e.err.Error() }
func (e *httpError) Unwrap() error   { return e.err }
func (e *httpError) StatusCode() int { return e.code }

// classify marks client errors other than 429 as not worth retrying
// (missing permissions, unknown emoji, deleted message).
func classify(err error) error {
	if err == nil {
		return nil
	}
	var re *discordgo.RESTError
	if !errors.As(err, &re) || re.Response == nil {
		return err
	}

	he := &httpError{err: err, code: re.Response.StatusCode}
	if he.code >= 400 && he.code < 500 && he.code != http.StatusTooManyRequests {
		return retrylimit.Fatal(he)
	}
	return he
}

func isRateLimited(err error) bool {
	var he retrylimit.HTTPError
	return errors.As(err, &he) && he.StatusCode() == http.StatusTooManyRequests
}
