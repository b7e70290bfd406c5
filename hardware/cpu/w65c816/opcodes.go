package w65c816

type opcodeDef struct {
	mnemonic string
	build    func(c *CPU, def opcodeDef) []microop
}

var opcodeTable [256]opcodeDef

func defOp(n int, mnemonic string, build func(c *CPU, def opcodeDef) []microop) {
	opcodeTable[n] = opcodeDef{mnemonic: mnemonic, build: build}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeDef{mnemonic: "JAM", build: impliedBuild(execJAM)}
	}

	// Loads / stores, direct page.
	defOp(0xa5, "LDA", directPageBuild(rwRead, wideA, execLDA))
	defOp(0xb5, "LDA", directPageIndexedBuild(rwRead, true, wideA, execLDA))
	defOp(0x85, "STA", directPageBuild(rwWrite, wideA, execSTA))
	defOp(0x95, "STA", directPageIndexedBuild(rwWrite, true, wideA, execSTA))
	defOp(0xa6, "LDX", directPageBuild(rwRead, wideXY, execLDX))
	defOp(0xb6, "LDX", directPageIndexedBuild(rwRead, false, wideXY, execLDX))
	defOp(0xa4, "LDY", directPageBuild(rwRead, wideXY, execLDY))
	defOp(0xb4, "LDY", directPageIndexedBuild(rwRead, true, wideXY, execLDY))
	defOp(0x86, "STX", directPageBuild(rwWrite, wideXY, execSTX))
	defOp(0x96, "STX", directPageIndexedBuild(rwWrite, false, wideXY, execSTX))
	defOp(0x84, "STY", directPageBuild(rwWrite, wideXY, execSTY))
	defOp(0x94, "STY", directPageIndexedBuild(rwWrite, true, wideXY, execSTY))
	defOp(0x64, "STZ", directPageBuild(rwWrite, wideA, execSTZ))
	defOp(0x74, "STZ", directPageIndexedBuild(rwWrite, true, wideA, execSTZ))

	// Loads / stores, absolute.
	defOp(0xad, "LDA", absoluteBuild(rwRead, wideA, execLDA))
	defOp(0xbd, "LDA", absoluteIndexedBuild(rwRead, true, wideA, execLDA))
	defOp(0xb9, "LDA", absoluteIndexedBuild(rwRead, false, wideA, execLDA))
	defOp(0x8d, "STA", absoluteBuild(rwWrite, wideA, execSTA))
	defOp(0x9d, "STA", absoluteIndexedBuild(rwWrite, true, wideA, execSTA))
	defOp(0x99, "STA", absoluteIndexedBuild(rwWrite, false, wideA, execSTA))
	defOp(0xae, "LDX", absoluteBuild(rwRead, wideXY, execLDX))
	defOp(0xbe, "LDX", absoluteIndexedBuild(rwRead, false, wideXY, execLDX))
	defOp(0xac, "LDY", absoluteBuild(rwRead, wideXY, execLDY))
	defOp(0xbc, "LDY", absoluteIndexedBuild(rwRead, true, wideXY, execLDY))
	defOp(0x8e, "STX", absoluteBuild(rwWrite, wideXY, execSTX))
	defOp(0x8c, "STY", absoluteBuild(rwWrite, wideXY, execSTY))
	defOp(0x9c, "STZ", absoluteBuild(rwWrite, wideA, execSTZ))
	defOp(0x9e, "STZ", absoluteIndexedBuild(rwWrite, true, wideA, execSTZ))
	defOp(0xaf, "LDA", absoluteLongBuild(rwRead, false, wideA, execLDA))
	defOp(0xbf, "LDA", absoluteLongBuild(rwRead, true, wideA, execLDA))
	defOp(0x8f, "STA", absoluteLongBuild(rwWrite, false, wideA, execSTA))
	defOp(0x9f, "STA", absoluteLongBuild(rwWrite, true, wideA, execSTA))

	// Loads / stores, immediate.
	defOp(0xa9, "LDA", immediateBuild(wideA, execLDA))
	defOp(0xa2, "LDX", immediateBuild(wideXY, execLDX))
	defOp(0xa0, "LDY", immediateBuild(wideXY, execLDY))

	// Indirect addressing.
	defOp(0xb2, "LDA", directPageIndirectBuild(rwRead, false, false, false, wideA, execLDA))
	defOp(0x92, "STA", directPageIndirectBuild(rwWrite, false, false, false, wideA, execSTA))
	defOp(0xb1, "LDA", directPageIndirectBuild(rwRead, false, false, true, wideA, execLDA))
	defOp(0x91, "STA", directPageIndirectBuild(rwWrite, false, false, true, wideA, execSTA))
	defOp(0xa1, "LDA", directPageIndirectBuild(rwRead, false, true, false, wideA, execLDA))
	defOp(0x81, "STA", directPageIndirectBuild(rwWrite, false, true, false, wideA, execSTA))
	defOp(0xa7, "LDA", directPageIndirectBuild(rwRead, true, false, false, wideA, execLDA))
	defOp(0x87, "STA", directPageIndirectBuild(rwWrite, true, false, false, wideA, execSTA))
	defOp(0xb7, "LDA", directPageIndirectBuild(rwRead, true, false, true, wideA, execLDA))
	defOp(0x97, "STA", directPageIndirectBuild(rwWrite, true, false, true, wideA, execSTA))

	// Stack-relative.
	defOp(0xa3, "LDA", stackRelativeBuild(rwRead, wideA, execLDA))
	defOp(0x83, "STA", stackRelativeBuild(rwWrite, wideA, execSTA))

	// ALU, immediate + direct page + absolute (+ long/indexed) share the
	// same exec closures; only the addressing mode differs.
	registerALUFamily(0x69, 0x65, 0x75, 0x6d, 0x7d, 0x79, 0x6f, 0x7f, 0x61, 0x71, 0x72, 0x67, 0x77, 0x63, "ADC", execADC)
	registerALUFamily(0xe9, 0xe5, 0xf5, 0xed, 0xfd, 0xf9, 0xef, 0xff, 0xe1, 0xf1, 0xf2, 0xe7, 0xf7, 0xe3, "SBC", execSBC)
	registerALUFamily(0x29, 0x25, 0x35, 0x2d, 0x3d, 0x39, 0x2f, 0x3f, 0x21, 0x31, 0x32, 0x27, 0x37, 0x23, "AND", execAND)
	registerALUFamily(0x09, 0x05, 0x15, 0x0d, 0x1d, 0x19, 0x0f, 0x1f, 0x01, 0x11, 0x12, 0x07, 0x17, 0x03, "ORA", execORA)
	registerALUFamily(0x49, 0x45, 0x55, 0x4d, 0x5d, 0x59, 0x4f, 0x5f, 0x41, 0x51, 0x52, 0x47, 0x57, 0x43, "EOR", execEOR)
	registerALUFamily(0xc9, 0xc5, 0xd5, 0xcd, 0xdd, 0xd9, 0xcf, 0xdf, 0xc1, 0xd1, 0xd2, 0xc7, 0xd7, 0xc3, "CMP", execCMPA)

	defOp(0xe0, "CPX", immediateBuild(wideXY, execCPX))
	defOp(0xe4, "CPX", directPageBuild(rwRead, wideXY, execCPX))
	defOp(0xec, "CPX", absoluteBuild(rwRead, wideXY, execCPX))
	defOp(0xc0, "CPY", immediateBuild(wideXY, execCPY))
	defOp(0xc4, "CPY", directPageBuild(rwRead, wideXY, execCPY))
	defOp(0xcc, "CPY", absoluteBuild(rwRead, wideXY, execCPY))

	defOp(0x89, "BIT", immediateBuild(wideA, execBITimm))
	defOp(0x24, "BIT", directPageBuild(rwRead, wideA, execBIT))
	defOp(0x34, "BIT", directPageIndexedBuild(rwRead, true, wideA, execBIT))
	defOp(0x2c, "BIT", absoluteBuild(rwRead, wideA, execBIT))
	defOp(0x3c, "BIT", absoluteIndexedBuild(rwRead, true, wideA, execBIT))

	// Read-modify-write: INC/DEC/shifts.
	defOp(0xe6, "INC", directPageBuild(rwModify, wideA, execINCmem))
	defOp(0xf6, "INC", directPageIndexedBuild(rwModify, true, wideA, execINCmem))
	defOp(0xee, "INC", absoluteBuild(rwModify, wideA, execINCmem))
	defOp(0xfe, "INC", absoluteIndexedBuild(rwModify, true, wideA, execINCmem))
	defOp(0x1a, "INC", impliedBuild(execINCA))
	defOp(0xc6, "DEC", directPageBuild(rwModify, wideA, execDECmem))
	defOp(0xd6, "DEC", directPageIndexedBuild(rwModify, true, wideA, execDECmem))
	defOp(0xce, "DEC", absoluteBuild(rwModify, wideA, execDECmem))
	defOp(0xde, "DEC", absoluteIndexedBuild(rwModify, true, wideA, execDECmem))
	defOp(0x3a, "DEC", impliedBuild(execDECA))

	defOp(0x0a, "ASL", impliedBuild(execASLAcc))
	defOp(0x06, "ASL", directPageBuild(rwModify, wideA, execASLmem))
	defOp(0x16, "ASL", directPageIndexedBuild(rwModify, true, wideA, execASLmem))
	defOp(0x0e, "ASL", absoluteBuild(rwModify, wideA, execASLmem))
	defOp(0x1e, "ASL", absoluteIndexedBuild(rwModify, true, wideA, execASLmem))
	defOp(0x4a, "LSR", impliedBuild(execLSRAcc))
	defOp(0x46, "LSR", directPageBuild(rwModify, wideA, execLSRmem))
	defOp(0x56, "LSR", directPageIndexedBuild(rwModify, true, wideA, execLSRmem))
	defOp(0x4e, "LSR", absoluteBuild(rwModify, wideA, execLSRmem))
	defOp(0x5e, "LSR", absoluteIndexedBuild(rwModify, true, wideA, execLSRmem))
	defOp(0x2a, "ROL", impliedBuild(execROLAcc))
	defOp(0x26, "ROL", directPageBuild(rwModify, wideA, execROLmem))
	defOp(0x36, "ROL", directPageIndexedBuild(rwModify, true, wideA, execROLmem))
	defOp(0x2e, "ROL", absoluteBuild(rwModify, wideA, execROLmem))
	defOp(0x3e, "ROL", absoluteIndexedBuild(rwModify, true, wideA, execROLmem))
	defOp(0x6a, "ROR", impliedBuild(execRORAcc))
	defOp(0x66, "ROR", directPageBuild(rwModify, wideA, execRORmem))
	defOp(0x76, "ROR", directPageIndexedBuild(rwModify, true, wideA, execRORmem))
	defOp(0x6e, "ROR", absoluteBuild(rwModify, wideA, execRORmem))
	defOp(0x7e, "ROR", absoluteIndexedBuild(rwModify, true, wideA, execRORmem))

	// Register transfers and increments.
	defOp(0xaa, "TAX", impliedBuild(execTAX))
	defOp(0xa8, "TAY", impliedBuild(execTAY))
	defOp(0x8a, "TXA", impliedBuild(execTXA))
	defOp(0x98, "TYA", impliedBuild(execTYA))
	defOp(0x9a, "TXS", impliedBuild(execTXS))
	defOp(0xba, "TSX", impliedBuild(execTSX))
	defOp(0x9b, "TXY", impliedBuild(execTXY))
	defOp(0xbb, "TYX", impliedBuild(execTYX))
	defOp(0x5b, "TCD", impliedBuild(execTCD))
	defOp(0x7b, "TDC", impliedBuild(execTDC))
	defOp(0x1b, "TCS", impliedBuild(execTCS))
	defOp(0x3b, "TSC", impliedBuild(execTSC))
	defOp(0xeb, "XBA", impliedBuild(execXBA))
	defOp(0xe8, "INX", impliedBuild(execINX))
	defOp(0xc8, "INY", impliedBuild(execINY))
	defOp(0xca, "DEX", impliedBuild(execDEX))
	defOp(0x88, "DEY", impliedBuild(execDEY))

	// Stack.
	defOp(0x48, "PHA", impliedBuild(execPHA))
	defOp(0x68, "PLA", impliedBuild(execPLA))
	defOp(0xda, "PHX", impliedBuild(execPHX))
	defOp(0xfa, "PLX", impliedBuild(execPLX))
	defOp(0x5a, "PHY", impliedBuild(execPHY))
	defOp(0x7a, "PLY", impliedBuild(execPLY))
	defOp(0x8b, "PHB", impliedBuild(execPHB))
	defOp(0xab, "PLB", impliedBuild(execPLB))
	defOp(0x0b, "PHD", impliedBuild(execPHD))
	defOp(0x2b, "PLD", impliedBuild(execPLD))
	defOp(0x4b, "PHK", impliedBuild(execPHK))
	defOp(0x08, "PHP", impliedBuild(execPHP))
	defOp(0x28, "PLP", impliedBuild(execPLP))
	defOp(0xf4, "PEA", peaBuild())
	defOp(0xd4, "PEI", peiBuild())
	defOp(0x62, "PER", immediateBuild(func(*CPU) bool { return true }, execPER))

	// Flags / mode.
	defOp(0x18, "CLC", impliedBuild(execCLC))
	defOp(0x38, "SEC", impliedBuild(execSEC))
	defOp(0x58, "CLI", impliedBuild(execCLI))
	defOp(0x78, "SEI", impliedBuild(execSEI))
	defOp(0xd8, "CLD", impliedBuild(execCLD))
	defOp(0xf8, "SED", impliedBuild(execSED))
	defOp(0xb8, "CLV", impliedBuild(execCLV))
	defOp(0xfb, "XCE", impliedBuild(execXCE))
	defOp(0xc2, "REP", immediateBuild(func(*CPU) bool { return false }, execREP))
	defOp(0xe2, "SEP", immediateBuild(func(*CPU) bool { return false }, execSEP))

	// Control flow.
	defOp(0x4c, "JMP", absoluteJMPBuild(false))
	defOp(0x6c, "JMP", jmpIndirectBuild(false))
	defOp(0x7c, "JMP", jmpIndexedIndirectBuild())
	defOp(0x5c, "JML", absoluteLongJMPBuild())
	defOp(0xdc, "JML", jmpIndirectBuild(true))
	defOp(0x20, "JSR", jsrBuild())
	defOp(0xfc, "JSR", jsrIndexedIndirectBuild())
	defOp(0x22, "JSL", jslBuild())
	defOp(0x60, "RTS", rtsBuild())
	defOp(0x6b, "RTL", rtlBuild())
	defOp(0x40, "RTI", rtiBuild())
	defOp(0x00, "BRK", brkBuild())
	defOp(0x02, "COP", copBuild())

	registerBranch(0x90, "BCC", func(c *CPU) bool { return !c.P.Carry })
	registerBranch(0xb0, "BCS", func(c *CPU) bool { return c.P.Carry })
	registerBranch(0xf0, "BEQ", func(c *CPU) bool { return c.P.Zero })
	registerBranch(0xd0, "BNE", func(c *CPU) bool { return !c.P.Zero })
	registerBranch(0x30, "BMI", func(c *CPU) bool { return c.P.Negative })
	registerBranch(0x10, "BPL", func(c *CPU) bool { return !c.P.Negative })
	registerBranch(0x50, "BVC", func(c *CPU) bool { return !c.P.Overflow })
	registerBranch(0x70, "BVS", func(c *CPU) bool { return c.P.Overflow })
	registerBranch(0x80, "BRA", func(c *CPU) bool { return true })
	defOp(0x82, "BRL", brlBuild())

	defOp(0xea, "NOP", impliedBuild(func(c *CPU, bus Bus) error { return nil }))
	defOp(0x42, "WDM", immediateBuild(func(*CPU) bool { return false }, func(c *CPU, bus Bus) error { return nil }))
	defOp(0xcb, "WAI", impliedBuild(func(c *CPU, bus Bus) error { return nil }))
	defOp(0xdb, "STP", impliedBuild(func(c *CPU, bus Bus) error { c.Killed = true; return nil }))

	defOp(0x54, "MVP", blockMoveBuild(false))
	defOp(0x44, "MVN", blockMoveBuild(true))
}

// registerALUFamily wires the fourteen shared addressing-mode bytes that every
// 65C816 ALU operation (ADC/SBC/AND/ORA/EOR/CMP) supports.
func registerALUFamily(imm, dp, dpx, abs, absx, absy, absl, abslx, dpix, dpiy, dpi, dpixl, dpixly, dpxix int, mnemonic string, exec execFn) {
	defOp(imm, mnemonic, immediateBuild(wideA, exec))
	defOp(dp, mnemonic, directPageBuild(rwRead, wideA, exec))
	defOp(dpx, mnemonic, directPageIndexedBuild(rwRead, true, wideA, exec))
	defOp(abs, mnemonic, absoluteBuild(rwRead, wideA, exec))
	defOp(absx, mnemonic, absoluteIndexedBuild(rwRead, true, wideA, exec))
	defOp(absy, mnemonic, absoluteIndexedBuild(rwRead, false, wideA, exec))
	defOp(absl, mnemonic, absoluteLongBuild(rwRead, false, wideA, exec))
	defOp(abslx, mnemonic, absoluteLongBuild(rwRead, true, wideA, exec))
	defOp(dpix, mnemonic, directPageIndirectBuild(rwRead, false, true, false, wideA, exec))
	defOp(dpiy, mnemonic, directPageIndirectBuild(rwRead, false, false, true, wideA, exec))
	defOp(dpi, mnemonic, directPageIndirectBuild(rwRead, false, false, false, wideA, exec))
	defOp(dpixl, mnemonic, directPageIndirectBuild(rwRead, true, false, false, wideA, exec))
	defOp(dpixly, mnemonic, directPageIndirectBuild(rwRead, true, false, true, wideA, exec))
	defOp(dpxix, mnemonic, stackRelativeBuild(rwRead, wideA, exec))
}

func registerBranch(n int, mnemonic string, cond func(*CPU) bool) {
	defOp(n, mnemonic, func(c *CPU, def opcodeDef) []microop {
		return []microop{func(c *CPU, bus Bus) error {
			offset, err := fetchPC(c, bus)
			if err != nil {
				return err
			}
			if !cond(c) {
				return nil
			}
			oldPage := c.PC & 0xff00
			c.PC = uint16(int32(c.PC) + int32(int8(offset)))
			c.queue = append(c.queue, func(c *CPU, bus Bus) error { bus.Idle(); return nil })
			if !c.Emulation && c.PC&0xff00 != oldPage {
				c.queue = append(c.queue, func(c *CPU, bus Bus) error { bus.Idle(); return nil })
			}
			return nil
		}}
	})
}
