package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema 是 YAML 覆盖文件的结构。只出现的类别会覆盖内置表，
// 覆盖以类别为粒度整体替换，不做逐 key 合并，避免新旧规则混杂。
type fileSchema struct {
	TravelStyles   map[string]*StyleRule         `yaml:"travelStyles"`
	Activities     map[string][]string           `yaml:"activities"`
	Climates       map[string]*ClimateRule       `yaml:"climates"`
	Accommodations map[string]*AccommodationRule `yaml:"accommodations"`
	GroupSizes     map[string]*GroupSizeRule     `yaml:"groupSizes"`
	Durations      map[string]*DurationRule      `yaml:"durations"`
	Seasons        map[string][]int              `yaml:"seasons"`
}

// LoadFromYAML 从 YAML 文件加载知识库，未出现的类别保持内置默认值。
// 应在进程启动时调用一次；返回的 Base 运行期不可变。
func LoadFromYAML(path string, opts ...Option) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	b := Default(opts...)
	if schema.TravelStyles != nil {
		b.styles = normalizeKeys(schema.TravelStyles)
	}
	if schema.Activities != nil {
		b.activities = normalizeKeys(schema.Activities)
	}
	if schema.Climates != nil {
		b.climates = normalizeKeys(schema.Climates)
	}
	if schema.Accommodations != nil {
		b.accommodations = normalizeKeys(schema.Accommodations)
	}
	if schema.GroupSizes != nil {
		b.groupSizes = normalizeKeys(schema.GroupSizes)
	}
	if schema.Durations != nil {
		b.durations = normalizeKeys(schema.Durations)
	}
	if schema.Seasons != nil {
		b.seasons = normalizeKeys(schema.Seasons)
	}
	return b, nil
}

// normalizeKeys 统一表内 key 的口径，与查询侧 normalize 保持一致。
func normalizeKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[normalize(k)] = v
	}
	return out
}
