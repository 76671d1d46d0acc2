package core

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

var LoginFailed = fmt.Errorf("Failed to login to your account.")

const loginPath = "/info/profil/login"
const loginActionPath = "/info/profil/loginaction"

// LoginUsernamePassword establishes a session by submitting the site's
// login form. Hidden fields on the form are carried over verbatim so
// server-assigned tokens survive the round trip.
func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("unexpected status %d fetching login page", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := Page{Body: res.Body()}.Document()
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return err
	}

	fields := map[string]string{}
	for _, n := range doc.Find("form input[type=hidden]").Nodes {
		var name, value string
		for _, a := range n.Attr {
			switch a.Key {
			case "name":
				name = a.Val
			case "value":
				value = a.Val
			}
		}
		if name != "" {
			fields[name] = value
		}
	}
	fields["kennung"] = username
	fields["passwort"] = password

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(fields).
		Post(loginActionPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	doc, err = Page{Body: res.Body()}.Document()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse post-login html")
		return err
	}

	// the login form only renders again when the credentials were rejected
	if len(doc.Find("form[action$=loginaction]").Nodes) > 0 {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return LoginFailed
	}

	return nil
}
