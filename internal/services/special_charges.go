package services

import (
	"strings"

	"freight-service/internal/models"
)

// ShipmentContext carries the shipment facts a surcharge rule is matched
// against
type ShipmentContext struct {
	Weight      float64
	ServiceType models.ServiceType
	City        string
}

// RuleApplies reports whether a surcharge rule matches the shipment. Every
// configured condition must hold; unset conditions are unrestricted.
func RuleApplies(rule *models.SpecialChargeRule, shipment ShipmentContext) bool {
	if !rule.IsActive {
		return false
	}
	if rule.MinWeight != nil && shipment.Weight < *rule.MinWeight {
		return false
	}
	if rule.MaxWeight != nil && shipment.Weight > *rule.MaxWeight {
		return false
	}
	if rule.ServiceType != "" && rule.ServiceType != models.ServiceAll {
		if shipment.ServiceType != rule.ServiceType {
			return false
		}
	}
	if len(rule.Cities) > 0 {
		if !cityMatches(rule.Cities, shipment.City) {
			return false
		}
	}
	return true
}

// cityMatches does a case-insensitive substring match in both directions, so
// a rule for "Kochi" matches a shipment to "Kochi Port" and a rule for
// "Navi Mumbai" matches a shipment to "Mumbai"
func cityMatches(cities models.StringArray, city string) bool {
	c := strings.ToLower(strings.TrimSpace(city))
	if c == "" {
		return false
	}
	for _, ruleCity := range cities {
		rc := strings.ToLower(strings.TrimSpace(ruleCity))
		if rc == "" {
			continue
		}
		if strings.Contains(c, rc) || strings.Contains(rc, c) {
			return true
		}
	}
	return false
}

// RuleAmount resolves the monetary value of a matching rule. Percentage rules
// charge Amount percent of baseAmount, clamped to the rule's floor and
// ceiling; fixed rules charge Amount unchanged. The result is rounded half
// up to 2 decimals.
func RuleAmount(rule *models.SpecialChargeRule, baseAmount float64) float64 {
	amount := rule.Amount
	if rule.IsPercentage {
		amount = baseAmount * rule.Amount / 100
		if rule.MinAmount > 0 && amount < rule.MinAmount {
			amount = rule.MinAmount
		}
		if rule.MaxAmount != nil && amount > *rule.MaxAmount {
			amount = *rule.MaxAmount
		}
	}
	return round2(amount)
}

// EvaluateSpecialCharges filters rules against the shipment and resolves
// amounts for those that match. Percentage rules are based on baseAmount
// (the freight subtotal). Non-matching rules are excluded entirely.
func EvaluateSpecialCharges(rules []models.SpecialChargeRule, shipment ShipmentContext, baseAmount float64) []models.AppliedSpecialCharge {
	applied := make([]models.AppliedSpecialCharge, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		if !RuleApplies(rule, shipment) {
			continue
		}
		applied = append(applied, models.AppliedSpecialCharge{
			RuleID:       rule.ID,
			ChargeType:   rule.ChargeType,
			Description:  rule.Description,
			Amount:       RuleAmount(rule, baseAmount),
			IsPercentage: rule.IsPercentage,
		})
	}
	return applied
}
