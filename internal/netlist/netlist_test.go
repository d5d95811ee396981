package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netlist-paths/netlistpaths/internal/config"
)

const adderXML = `<?xml version="1.0"?>
<verilator_xml>
<files>
<file id="f1" filename="adder.sv" language="SystemVerilog"/>
</files>
<netlist>
<typetable>
<basicdtype id="1" name="logic" left="0" right="0"/>
</typetable>
<module name="TOP">
<var name="i_a" dtype_id="1" dir="input" loc="f1,1,1,1,1"/>
<var name="i_b" dtype_id="1" dir="input" loc="f1,2,1,2,1"/>
<var name="o_sum" dtype_id="1" dir="output" loc="f1,3,1,3,1"/>
<var name="o_co" dtype_id="1" dir="output" loc="f1,4,1,4,1"/>
<topscope>
<assign loc="f1,5,1,5,1">
<varref name="i_a" dtype_id="1" loc="f1,5,1,5,1"/>
<varref name="o_sum" dtype_id="1" loc="f1,5,1,5,1"/>
</assign>
<assign loc="f1,6,1,6,1">
<varref name="i_b" dtype_id="1" loc="f1,6,1,6,1"/>
<varref name="o_co" dtype_id="1" loc="f1,6,1,6,1"/>
</assign>
</topscope>
</module>
</netlist>
</verilator_xml>`

func TestNewFromBytesAdderPathExists(t *testing.T) {
	nl, err := NewFromBytes([]byte(adderXML), config.DefaultConfig())
	require.NoError(t, err)
	require.False(t, nl.IsEmpty())

	ok, err := nl.PathExists("i_a", "o_sum", nil, nil)
	require.NoError(t, err)
	assert.True(t, ok, "expected a path from i_a to o_sum")

	ok, err = nl.PathExists("i_a", "o_co", nil, nil)
	require.NoError(t, err)
	assert.False(t, ok, "expected no path from i_a to o_co")
}

func TestNewFromBytesRejectsUnknownMatchMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MatchMode = "fuzzy"
	_, err := NewFromBytes([]byte(adderXML), cfg)
	assert.Error(t, err)
}

func TestAnyPathReturnsVertexNames(t *testing.T) {
	nl, err := NewFromBytes([]byte(adderXML), config.DefaultConfig())
	require.NoError(t, err)

	path, err := nl.AnyPath("i_a", "o_sum", nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, "i_a", path[0])
	assert.Equal(t, "o_sum", path[len(path)-1])
}

const chainXML = `<?xml version="1.0"?>
<verilator_xml>
<files>
<file id="f1" filename="chain.sv" language="SystemVerilog"/>
</files>
<netlist>
<typetable>
<basicdtype id="1" name="logic" left="0" right="0"/>
</typetable>
<module name="TOP">
<var name="in" dtype_id="1" dir="input" loc="f1,1,1,1,1"/>
<var name="a" dtype_id="1" loc="f1,2,1,2,1"/>
<var name="out" dtype_id="1" dir="output" loc="f1,3,1,3,1"/>
<topscope>
<assign loc="f1,4,1,4,1">
<varref name="in" dtype_id="1" loc="f1,4,1,4,1"/>
<varref name="a" dtype_id="1" loc="f1,4,1,4,1"/>
</assign>
<assign loc="f1,5,1,5,1">
<varref name="a" dtype_id="1" loc="f1,5,1,5,1"/>
<varref name="out" dtype_id="1" loc="f1,5,1,5,1"/>
</assign>
</topscope>
</module>
</netlist>
</verilator_xml>`

func TestPathExistsAvoidsNamedMidVertex(t *testing.T) {
	nl, err := NewFromBytes([]byte(chainXML), config.DefaultConfig())
	require.NoError(t, err)

	ok, err := nl.PathExists("in", "out", nil, nil)
	require.NoError(t, err)
	assert.True(t, ok, "expected a path from in to out")

	ok, err = nl.PathExists("in", "out", nil, []string{"a"})
	require.NoError(t, err)
	assert.False(t, ok, "expected no path once the only mid vertex is avoided")
}

func TestPathExistsAvoidUnresolvedPatternErrors(t *testing.T) {
	nl, err := NewFromBytes([]byte(chainXML), config.DefaultConfig())
	require.NoError(t, err)

	_, err = nl.PathExists("in", "out", nil, []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestPathExistsUnresolvedStartEndMidNameTheRole(t *testing.T) {
	nl, err := NewFromBytes([]byte(chainXML), config.DefaultConfig())
	require.NoError(t, err)

	_, err = nl.PathExists("nope", "out", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start vertex matching")
	assert.Contains(t, err.Error(), "nope")

	_, err = nl.PathExists("in", "nope", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end vertex matching")
	assert.Contains(t, err.Error(), "nope")

	_, err = nl.PathExists("in", "out", Waypoints{"nope"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "through vertex")
	assert.Contains(t, err.Error(), "nope")
}

const regAliasXML = `<?xml version="1.0"?>
<verilator_xml>
<files>
<file id="f1" filename="reg_alias.sv" language="SystemVerilog"/>
</files>
<netlist>
<typetable>
<basicdtype id="1" name="logic" left="0" right="0"/>
</typetable>
<module name="TOP">
<var name="clk" dtype_id="1" dir="input" loc="f1,1,1,1,1"/>
<var name="d" dtype_id="1" dir="input" loc="f1,2,1,2,1"/>
<var name="q" dtype_id="1" loc="f1,3,1,3,1"/>
<var name="q_alias" dtype_id="1" dir="output" loc="f1,4,1,4,1"/>
<topscope>
<always loc="f1,5,1,5,1">
<assigndly loc="f1,5,1,5,1">
<varref name="d" dtype_id="1" loc="f1,5,1,5,1"/>
<varref name="q" dtype_id="1" loc="f1,5,1,5,1"/>
</assigndly>
</always>
<assignalias loc="f1,6,1,6,1">
<varref name="q" dtype_id="1" loc="f1,6,1,6,1"/>
<varref name="q_alias" dtype_id="1" loc="f1,6,1,6,1"/>
</assignalias>
</topscope>
</module>
</netlist>
</verilator_xml>`

func TestRegAliasExists(t *testing.T) {
	nl, err := NewFromBytes([]byte(regAliasXML), config.DefaultConfig())
	require.NoError(t, err)

	ok, err := nl.RegAliasExists("q_alias")
	require.NoError(t, err)
	assert.True(t, ok, "expected q_alias to be recognized as a register alias")

	ok, err = nl.RegAliasExists("d")
	require.NoError(t, err)
	assert.False(t, ok, "expected a plain input to not be a register alias")
}

func TestStartpointAndEndpointExists(t *testing.T) {
	nl, err := NewFromBytes([]byte(adderXML), config.DefaultConfig())
	require.NoError(t, err)

	ok, err := nl.StartpointExists("i_a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = nl.EndpointExists("i_a")
	require.NoError(t, err)
	assert.False(t, ok)
}
