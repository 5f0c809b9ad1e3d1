package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Wire names of the outgoing query parameters. ModeParam is capitalized on
// the wire and must stay that way.
const (
	QParam     = "q"
	IDParam    = "id"
	LatParam   = "lat"
	LonParam   = "lon"
	ZipParam   = "zip"
	UnitsParam = "units"
	LangParam  = "lang"
	ModeParam  = "Mode"
	AppIDParam = "appid"
)

// QueryParameters are the optional inputs of a current weather query.
// Strings count as set when non-empty, numbers when non-nil.
// Location fields are not checked for mutual exclusivity; the remote API
// applies its own precedence.
type QueryParameters struct {
	Q     string   `json:"q,omitempty"`
	ID    *int64   `json:"id,omitempty" validate:"omitempty,min=0"`
	Lat   *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon   *float64 `json:"lon,omitempty" validate:"omitempty,longitude"`
	Zip   string   `json:"zip,omitempty"`
	Units string   `json:"units,omitempty" validate:"omitempty,oneof=metric imperial standard"`
	Lang  string   `json:"lang,omitempty"`
	Mode  string   `json:"Mode,omitempty"`
	AppID string   `json:"appid,omitempty"`
}

// Values returns the query string for params. appid is the explicit AppID
// when set, otherwise defaultKey; it is omitted when both are empty.
func (p QueryParameters) Values(defaultKey string) url.Values {
	v := url.Values{}
	if p.Q != "" {
		v.Set(QParam, p.Q)
	}
	if p.ID != nil {
		v.Set(IDParam, strconv.FormatInt(*p.ID, 10))
	}
	if p.Lat != nil {
		v.Set(LatParam, formatFloat(*p.Lat))
	}
	if p.Lon != nil {
		v.Set(LonParam, formatFloat(*p.Lon))
	}
	if p.Zip != "" {
		v.Set(ZipParam, p.Zip)
	}
	if p.Units != "" {
		v.Set(UnitsParam, p.Units)
	}
	if p.Lang != "" {
		v.Set(LangParam, p.Lang)
	}
	if p.Mode != "" {
		v.Set(ModeParam, p.Mode)
	}
	if key := p.resolveKey(defaultKey); key != "" {
		v.Set(AppIDParam, key)
	}
	return v
}

func (p QueryParameters) resolveKey(defaultKey string) string {
	if p.AppID != "" {
		return p.AppID
	}
	return defaultKey
}

// BuildURL returns {base}/weather with params encoded in wire order
// (q, id, lat, lon, zip, units, lang, Mode, appid).
func BuildURL(base string, params QueryParameters, defaultKey string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/weather")
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}

	values := params.Values(defaultKey)
	order := []string{QParam, IDParam, LatParam, LonParam, ZipParam, UnitsParam, LangParam, ModeParam, AppIDParam}

	var sb strings.Builder
	for _, name := range order {
		value, ok := values[name]
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value[0]))
	}
	u.RawQuery = sb.String()

	return u, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Float64 and Int64 are helpers for populating optional numeric fields.
func Float64(v float64) *float64 { return &v }

func Int64(v int64) *int64 { return &v }

// Set assigns one parameter by wire name from its text form. "mode" is
// accepted as well as "Mode".
func (p *QueryParameters) Set(name, value string) error {
	switch name {
	case QParam:
		p.Q = value
	case IDParam:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		p.ID = &id
	case LatParam, LonParam:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		if name == LatParam {
			p.Lat = &f
		} else {
			p.Lon = &f
		}
	case ZipParam:
		p.Zip = value
	case UnitsParam:
		p.Units = value
	case LangParam:
		p.Lang = value
	case ModeParam, "mode":
		p.Mode = value
	case AppIDParam:
		p.AppID = value
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}
