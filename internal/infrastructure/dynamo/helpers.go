package dynamo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET
// expression. Keys are processed in sorted order so the expression is
// deterministic. Dotted keys ("details.bio") address nested map attributes
// and get one name placeholder per path segment.
func buildUpdateExpr(updates map[string]interface{}) (expr string, names map[string]string, values map[string]types.AttributeValue, err error) {
	if len(updates) == 0 {
		return "", nil, nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names = make(map[string]string)
	values = make(map[string]types.AttributeValue)
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		segments := strings.Split(k, ".")
		placeholders := make([]string, len(segments))
		for j, seg := range segments {
			nameKey := fmt.Sprintf("#f%d_%d", i, j)
			names[nameKey] = seg
			placeholders[j] = nameKey
		}
		valueKey := fmt.Sprintf(":v%d", i)
		av, mErr := attributevalue.Marshal(updates[k])
		if mErr != nil {
			return "", nil, nil, fmt.Errorf("marshal field %s: %w", k, mErr)
		}
		values[valueKey] = av
		parts = append(parts, strings.Join(placeholders, ".")+" = "+valueKey)
	}
	return "SET " + strings.Join(parts, ", "), names, values, nil
}
