package core

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateCondition evaluates a `when:` expression against the run context.
// The expression must yield a boolean.
func EvaluateCondition(condition string, ctx *RunContext) (bool, error) {
	env := map[string]interface{}{
		"os":       ctx.OS,
		"hostname": ctx.Hostname,
		"user":     ctx.User,
	}

	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid condition %q: %w", condition, err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", condition, err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to a boolean", condition)
	}
	return result, nil
}
