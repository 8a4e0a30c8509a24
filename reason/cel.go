package reason

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/travelie/recommend/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("factors", cel.DynType),
		cel.Variable("score", cel.DoubleType),
		cel.Variable("tour", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel env not initialized")
	}
	return celEnv, err
}

// NewCELRule 构建一条由 CEL 表达式判定的理由规则。
// 表达式在构建时编译一次，之后对每个条目求值，必须返回布尔。
//
// 表达式可引用的变量：
//   - factors: 因子明细 map，如 factors.budget >= 0.8
//   - score: 综合得分，如 score > 0.7
//   - tour: 候选字段 map，如 tour.country == "Japan"
//
// 示例：
//   - `factors.budget >= 0.8 && factors.rating >= 0.8` → 预算与口碑双优
//   - `score > 0.9` → 全面匹配
//
// 运营侧可用它在不改代码的情况下追加理由规则；内置规则仍是默认优先级。
func NewCELRule(name, expr, phrase string) (Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return Rule{}, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return Rule{}, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return Rule{}, fmt.Errorf("program error: %w", err)
	}

	return Rule{
		Name: name,
		When: func(it *core.Item) bool {
			out, _, err := prg.Eval(buildInput(it))
			if err != nil {
				// 求值失败按未达标处理，不中断理由生成
				return false
			}
			b, ok := out.Value().(bool)
			return ok && b
		},
		Phrase: static(phrase),
	}, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(it *core.Item) map[string]any {
	factors := make(map[string]any)
	if it.Breakdown != nil {
		for k, v := range it.Breakdown.Factors {
			factors[k] = v
		}
	}

	tour := map[string]any{}
	if it.Tour != nil {
		tour = map[string]any{
			"id":         it.Tour.ID,
			"name":       it.Tour.Name,
			"country":    it.Tour.Country,
			"cost":       it.Tour.Cost,
			"rating":     it.Tour.Rating,
			"difficulty": it.Tour.Difficulty,
		}
	}

	return map[string]any{
		"factors": factors,
		"score":   it.Score,
		"tour":    tour,
	}
}
