// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package inject

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/toeirei/redtoken/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	placeholderToken = "{{token}}"
	placeholderName  = "{{name}}"

	envNamePrefix    = "API_TOKEN_"
	jsonKeyPrefix    = "apiToken"
	customNamePrefix = "TOKEN_"
)

// bashTemplates are plausible leaked commands. %s is the token value.
var bashTemplates = []string{
	"curl -H 'Authorization: Bearer %s' https://api.example.com/v1/users",
	"aws s3 cp myfile.txt s3://mybucket --secret-key %s",
	"git clone https://%s@github.com/myorg/myrepo.git",
	"export API_KEY=%s",
}

// uniqueName returns prefix plus a random three digit suffix for which taken
// reports false. Random draws are tried first, then the range is scanned.
func uniqueName(prefix string, taken func(string) bool) (string, error) {
	for i := 0; i < 32; i++ {
		n, err := randSuffix()
		if err != nil {
			return "", err
		}
		if name := fmt.Sprintf("%s%d", prefix, n); !taken(name) {
			return name, nil
		}
	}
	for n := 100; n <= 999; n++ {
		if name := fmt.Sprintf("%s%d", prefix, n); !taken(name) {
			return name, nil
		}
	}
	return "", model.ValidationError("no free name with prefix " + prefix)
}

// appendBlock trims trailing whitespace from data and appends block after a
// separator.
func appendBlock(data []byte, sep, block string) []byte {
	body := bytes.TrimRight(data, " \t\r\n")
	var out bytes.Buffer
	out.Grow(len(body) + len(sep) + len(block) + 1)
	out.Write(body)
	if len(body) > 0 {
		out.WriteString(sep)
	}
	out.WriteString(block)
	if !strings.HasSuffix(block, "\n") {
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// envNames collects variable names assigned in an env file.
func envNames(data []byte) map[string]bool {
	names := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		if name, _, ok := strings.Cut(line, "="); ok {
			names[strings.TrimSpace(name)] = true
		}
	}
	return names
}

// envQuote wraps v in single quotes when a shell or dotenv parser would
// otherwise split or expand it.
func envQuote(v string) string {
	if strings.ContainsRune(v, '\'') || !strings.ContainsAny(v, " \t#\"$`\\") {
		return v
	}
	return "'" + v + "'"
}

func (s *Service) embedEnv(data []byte, value string) ([]byte, error) {
	names := envNames(data)
	name, err := uniqueName(envNamePrefix, func(n string) bool { return names[n] })
	if err != nil {
		return nil, err
	}
	marker := strings.TrimSpace(s.cfg.EnvMarker)
	if marker == "" {
		marker = DefaultEnvMarker
	} else if !strings.HasPrefix(marker, "#") {
		marker = "# " + marker
	}
	return appendBlock(data, "\n\n", marker+"\n"+name+"="+envQuote(value)+"\n"), nil
}

func embedJSON(data []byte, value string) ([]byte, error) {
	body := bytes.TrimSpace(data)
	if len(body) == 0 {
		return nil, model.InvalidFormat("empty JSON document", nil)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, model.InvalidFormat("invalid JSON", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, model.InvalidFormat("invalid JSON: trailing data after document", err)
	}

	obj, isObject := root.(map[string]any)
	key, err := uniqueName(jsonKeyPrefix, func(k string) bool {
		_, ok := obj[k]
		return ok
	})
	if err != nil {
		return nil, err
	}

	var enc bytes.Buffer
	e := json.NewEncoder(&enc)
	e.SetEscapeHTML(false)
	if err := e.Encode(map[string]string{key: value}); err != nil {
		return nil, model.InvalidFormat("encode JSON", err)
	}
	// Splice the new member into the original text so existing key order
	// survives; a non-object root is replaced.
	member := bytes.TrimSpace(enc.Bytes())
	member = member[1 : len(member)-1]

	var spliced []byte
	switch {
	case isObject && len(obj) > 0:
		end := bytes.LastIndexByte(body, '}')
		spliced = append(spliced, body[:end]...)
		spliced = append(spliced, ',')
		spliced = append(spliced, member...)
		spliced = append(spliced, body[end:]...)
	default:
		spliced = append(spliced, '{')
		spliced = append(spliced, member...)
		spliced = append(spliced, '}')
	}

	var out bytes.Buffer
	if err := json.Indent(&out, spliced, "", "  "); err != nil {
		return nil, model.InvalidFormat("format JSON", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func embedYAML(data []byte, value string) ([]byte, error) {
	var docs []*yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.InvalidFormat("invalid YAML", err)
		}
		docs = append(docs, &doc)
	}
	if len(docs) == 0 {
		docs = append(docs, &yaml.Node{Kind: yaml.DocumentNode})
	}

	doc := docs[0]
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	root := doc.Content[0]

	keys := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keys[root.Content[i].Value] = true
	}
	key, err := uniqueName(jsonKeyPrefix, func(k string) bool { return keys[k] })
	if err != nil {
		return nil, err
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)

	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return nil, model.InvalidFormat("encode YAML", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, model.InvalidFormat("encode YAML", err)
	}
	return out.Bytes(), nil
}

func embedBashHistory(data []byte, value string) ([]byte, error) {
	idx, err := randInt(len(bashTemplates))
	if err != nil {
		return nil, err
	}
	return appendBlock(data, "\n", fmt.Sprintf(bashTemplates[idx], value)), nil
}

func (s *Service) embedCustom(data []byte, value string) ([]byte, error) {
	line := s.cfg.Pattern
	if strings.Contains(line, placeholderName) {
		existing := string(data)
		name, err := uniqueName(customNamePrefix, func(n string) bool { return strings.Contains(existing, n) })
		if err != nil {
			return nil, err
		}
		line = strings.ReplaceAll(line, placeholderName, name)
	}
	line = strings.ReplaceAll(line, placeholderToken, value)
	return appendBlock(data, "\n", line), nil
}
