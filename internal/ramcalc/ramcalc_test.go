package ramcalc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarbo87/scriptram/internal/costtable"
	"github.com/scarbo87/scriptram/internal/model"
)

func basicTable() costtable.Table {
	return costtable.Table{
		"hack": costtable.Constant(0.1),
		"grow": costtable.Constant(0.15),
		"stanek": costtable.SubTable(costtable.Table{
			"get": costtable.Constant(0.2),
		}),
	}
}

func TestCalculateRamUsage_BaseCostFloor(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `export async function main(ns) {}`, nil, basicTable())
	require.NotNil(t, calc.Entries)
	assert.Equal(t, BaseCost, calc.Cost)
}

func TestCalculateRamUsage_SumsUnresolvedCharges(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `
		export async function main(ns) {
			ns.hack("n00dles");
			ns.grow("n00dles");
		}
	`, nil, basicTable())
	require.NotNil(t, calc.Entries)
	assert.InDelta(t, BaseCost+0.1+0.15, calc.Cost, 1e-9)
}

func TestCalculateRamUsage_DeduplicatesRepeatedCalls(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `
		export async function main(ns) {
			ns.hack("n00dles");
			ns.hack("n00dles");
			ns.hack("n00dles");
		}
	`, nil, basicTable())
	require.NotNil(t, calc.Entries)
	assert.InDelta(t, BaseCost+0.1, calc.Cost, 1e-9)
}

func TestCalculateRamUsage_StanekTwoDeepNamespaceCharged(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `
		export async function main(ns) {
			const g = ns.stanek.get;
			g(0, 0);
		}
	`, nil, basicTable())
	require.NotNil(t, calc.Entries)
	assert.InDelta(t, BaseCost+0.2, calc.Cost, 1e-9)
}

func TestCalculateRamUsage_SpecialNamespaceShortCircuits(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `
		export async function main(ns) {
			ns.hacknet.purchaseNode();
		}
	`, nil, basicTable())
	require.NotNil(t, calc.Entries)
	assert.InDelta(t, BaseCost+4, calc.Cost, 1e-9)
}

func TestCalculateRamUsage_SyntaxErrorYieldsNegativeCodeAndNilEntries(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `function main( { `, nil, basicTable())
	assert.Nil(t, calc.Entries)
	assert.Equal(t, float64(ErrCodeSyntax), calc.Cost)
}

func TestCalculateRamUsage_MissingImportYieldsNegativeCode(t *testing.T) {
	calc := CalculateRamUsage(context.Background(), nil, `
		import { helper } from "./missing.js";
		export async function main(ns) { helper(); }
	`, nil, basicTable())
	assert.Nil(t, calc.Entries)
	assert.Equal(t, float64(ErrCodeImport), calc.Cost)
}

func TestReduce_BareAliasedPurchaseNodeIsUncharged(t *testing.T) {
	calls := []model.DefinedFunction{{Name: "purchaseNode", Namespace: ""}}
	calc := Reduce(calls, nil, basicTable())
	assert.Equal(t, BaseCost, calc.Cost)
}
