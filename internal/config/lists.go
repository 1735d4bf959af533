package config

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// ContentCheck is a path that must answer 200 with keyword in the body.
type ContentCheck struct {
	Path    string `json:"path" validate:"required"`
	Keyword string `json:"keyword" validate:"required"`
}

// DBTarget is a database endpoint probed for connectivity.
type DBTarget struct {
	Name     string        `json:"name"`
	Host     string        `json:"host" validate:"required,hostname_rfc1123|ip"`
	Port     int           `json:"port" validate:"required,min=1,max=65535"`
	Timeout  time.Duration `json:"timeout"`
	Kind     string        `json:"kind" validate:"oneof=tcp redis clickhouse"`
	Username string        `json:"username,omitempty"`
	Password string        `json:"password,omitempty"`
	Database string        `json:"database,omitempty"`
}

// rawDBTarget tolerates ports and timeouts given as numbers or strings.
type rawDBTarget struct {
	Name     string          `json:"name"`
	Host     string          `json:"host"`
	Port     json.RawMessage `json:"port"`
	Timeout  json.RawMessage `json:"timeout"`
	Kind     string          `json:"kind"`
	Username string          `json:"username"`
	Password string          `json:"password"`
	Database string          `json:"database"`
}

// parseStringList accepts a JSON array or a comma separated list.
func parseStringList(raw string) []string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return []string{}
	}

	var items []interface{}
	if err := json.Unmarshal([]byte(value), &items); err == nil {
		out := make([]string, 0, len(items))

		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				b, _ := json.Marshal(item)
				s = string(b)
			}

			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}

		return out
	}

	out := make([]string, 0)

	for _, item := range strings.Split(value, ",") {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// parseContentChecks decodes a JSON array of {path, keyword}. Malformed JSON
// yields an empty list and entries failing validation are skipped.
func parseContentChecks(raw string, log logrus.FieldLogger) []ContentCheck {
	value := strings.TrimSpace(raw)
	if value == "" {
		return []ContentCheck{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		log.WithError(err).WithField("key", EnvContentChecks).Warn("malformed JSON, ignoring")

		return []ContentCheck{}
	}

	checks := make([]ContentCheck, 0, len(items))

	for i, item := range items {
		var check ContentCheck
		if err := json.Unmarshal(item, &check); err != nil {
			log.WithField("index", i).Warn("skipping content check that is not an object")

			continue
		}

		check.Path = strings.TrimSpace(check.Path)
		check.Keyword = strings.TrimSpace(check.Keyword)

		if err := validate.Struct(check); err != nil {
			log.WithError(err).WithField("index", i).Warn("skipping invalid content check")

			continue
		}

		checks = append(checks, check)
	}

	return checks
}

// parseDBTargets decodes a JSON array of DB targets, applying defaults for
// name, kind and timeout. Malformed JSON yields an empty list.
func parseDBTargets(raw string, log logrus.FieldLogger) []DBTarget {
	value := strings.TrimSpace(raw)
	if value == "" {
		return []DBTarget{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		log.WithError(err).WithField("key", EnvDBPings).Warn("malformed JSON, ignoring")

		return []DBTarget{}
	}

	targets := make([]DBTarget, 0, len(items))

	for i, item := range items {
		var r rawDBTarget
		if err := json.Unmarshal(item, &r); err != nil {
			log.WithField("index", i).Warn("skipping DB target that is not an object")

			continue
		}

		target := DBTarget{
			Name:     strings.TrimSpace(r.Name),
			Host:     strings.TrimSpace(r.Host),
			Port:     int(jsonNumber(r.Port, 0)),
			Timeout:  time.Duration(jsonNumber(r.Timeout, DefaultDBPingTimeout.Seconds()) * float64(time.Second)),
			Kind:     strings.ToLower(strings.TrimSpace(r.Kind)),
			Username: r.Username,
			Password: r.Password,
			Database: r.Database,
		}

		if target.Name == "" {
			target.Name = target.Host
		}

		if target.Kind == "" {
			target.Kind = DBKindTCP
		}

		if target.Timeout <= 0 {
			target.Timeout = DefaultDBPingTimeout
		}

		if err := validate.Struct(target); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"index": i,
				"name":  target.Name,
			}).Warn("skipping invalid DB target")

			continue
		}

		targets = append(targets, target)
	}

	return targets
}

// jsonNumber reads a number or numeric string, returning fallback otherwise.
func jsonNumber(raw json.RawMessage, fallback float64) float64 {
	if len(raw) == 0 {
		return fallback
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}

	return fallback
}
