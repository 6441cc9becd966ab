// Package publishers relays loaded report pages to downstream consumers
// (queues, topics and HTTP sinks) declared in a YAML or JSON file.
package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeQueue = "queue"
	TypeHTTP  = "http"

	// Supported queue providers.
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

type registryFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one entry of the publishers file.
type PublisherConfig struct {
	ID      string                `json:"id" yaml:"id"`
	Type    string                `json:"type" yaml:"type"`
	Enabled *bool                 `json:"enabled" yaml:"enabled"`
	Queue   *QueuePublisherConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPPublisherConfig  `json:"http" yaml:"http"`
}

// QueuePublisherConfig selects a cloud queue provider.
type QueuePublisherConfig struct {
	Provider string                 `json:"provider" yaml:"provider"`
	SQS      *AWSSQSPublisherConfig `json:"sqs" yaml:"sqs"`
	SNS      *AWSSNSPublisherConfig `json:"sns" yaml:"sns"`
	GCP      *GCPQueueConfig        `json:"gcp" yaml:"gcp"`
}

// AWSSQSPublisherConfig holds AWS SQS settings.
type AWSSQSPublisherConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AWSSNSPublisherConfig holds AWS SNS settings.
type AWSSNSPublisherConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPQueueConfig holds Pub/Sub topic settings.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds generic HTTP sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry holds the validated publisher entries in file order.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]int
}

// LoadRegistry reads the publishers file. ${VAR} references are expanded
// from the environment before decoding.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeRegistryFile([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return newConfigRegistry(file.Publishers)
}

func newConfigRegistry(entries []PublisherConfig) (*ConfigRegistry, error) {
	if len(entries) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, 0, len(entries)),
		idx:        make(map[string]int, len(entries)),
	}
	for i, entry := range entries {
		cfg := entry.normalized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.idx[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.idx[cfg.ID] = len(reg.publishers)
		reg.publishers = append(reg.publishers, cfg)
	}
	return reg, nil
}

// decodeRegistryFile picks the decoder by extension, or tries YAML then JSON
// when the extension is unknown.
func decodeRegistryFile(data []byte, ext string) (registryFile, error) {
	var file registryFile
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return registryFile{}, fmt.Errorf("decode json publishers: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return registryFile{}, fmt.Errorf("decode yaml publishers: %w", err)
		}
	default:
		if yaml.Unmarshal(data, &file) != nil && json.Unmarshal(data, &file) != nil {
			return registryFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
		}
	}
	return file, nil
}

func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}
	if cfg.Queue != nil {
		q := cfg.Queue.normalized()
		cfg.Queue = &q
	}
	if cfg.HTTP != nil {
		h := cfg.HTTP.normalized()
		cfg.HTTP = &h
	}
	return cfg
}

func (q QueuePublisherConfig) normalized() QueuePublisherConfig {
	q.Provider = strings.ToLower(strings.TrimSpace(q.Provider))
	if q.SQS != nil {
		s := *q.SQS
		trimAll(&s.QueueURL, &s.Region, &s.AccessKeyID, &s.SecretAccessKey)
		q.SQS = &s
	}
	if q.SNS != nil {
		s := *q.SNS
		trimAll(&s.TopicARN, &s.Region, &s.AccessKeyID, &s.SecretAccessKey)
		q.SNS = &s
	}
	if q.GCP != nil {
		g := *q.GCP
		trimAll(&g.ProjectID, &g.Topic, &g.CredentialsFile)
		q.GCP = &g
	}
	return q
}

func (h HTTPPublisherConfig) normalized() HTTPPublisherConfig {
	h.URL = strings.TrimSpace(h.URL)
	h.Method = strings.ToUpper(strings.TrimSpace(h.Method))
	if h.Method == "" {
		h.Method = httpDefaultMethod
	}
	if h.TimeoutSeconds <= 0 {
		h.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	if len(h.Headers) > 0 {
		headers := make(map[string]string, len(h.Headers))
		for k, v := range h.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		h.Headers = headers
	}
	if len(h.Headers) == 0 {
		h.Headers = nil
	}
	return h
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for publisher %q", cfg.ID)
		}
		return cfg.Queue.validate(cfg.ID)
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		if cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for publisher %q", cfg.ID)
		}
		return nil
	default:
		return fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
}

func (q *QueuePublisherConfig) validate(id string) error {
	switch q.Provider {
	case QueueProviderAWSSQS:
		if q.SQS == nil {
			return fmt.Errorf("sqs config required for publisher %q", id)
		}
		return requireFields(id, "sqs", map[string]string{
			"uri":               q.SQS.QueueURL,
			"region":            q.SQS.Region,
			"access_key_id":     q.SQS.AccessKeyID,
			"secret_access_key": q.SQS.SecretAccessKey,
		})
	case QueueProviderAWSSNS:
		if q.SNS == nil {
			return fmt.Errorf("sns config required for publisher %q", id)
		}
		return requireFields(id, "sns", map[string]string{
			"topic_arn":         q.SNS.TopicARN,
			"region":            q.SNS.Region,
			"access_key_id":     q.SNS.AccessKeyID,
			"secret_access_key": q.SNS.SecretAccessKey,
		})
	case QueueProviderGCP:
		if q.GCP == nil {
			return fmt.Errorf("gcp config required for publisher %q", id)
		}
		return requireFields(id, "gcp", map[string]string{
			"project_id": q.GCP.ProjectID,
			"topic":      q.GCP.Topic,
		})
	default:
		return fmt.Errorf("queue provider %q not supported for publisher %q", q.Provider, id)
	}
}

// requireFields reports the first empty field in name order.
func requireFields(id, section string, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if fields[name] == "" {
			return fmt.Errorf("%s.%s is required for publisher %q", section, name, id)
		}
	}
	return nil
}

// ByID returns the publisher config by id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.idx[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.publishers[i], true
}

// All returns every configured publisher in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return slices.Clone(r.publishers)
}

// Enabled returns the publishers that are switched on.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}
