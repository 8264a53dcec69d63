package domain

import "github.com/google/uuid"

// Form104Section groups the fields of a VAT declaration as printed on the form.
type Form104Section string

const (
	SectionSales        Form104Section = "ventas"
	SectionSettlement   Form104Section = "liquidacion"
	SectionPurchases    Form104Section = "adquisiciones"
	SectionExportRefund Form104Section = "devolucion_exportadores"
	SectionTotals       Form104Section = "totales"
)

// Form104Sections lists the sections in print order.
var Form104Sections = []Form104Section{
	SectionSales, SectionSettlement, SectionPurchases, SectionExportRefund, SectionTotals,
}

// DefaultCOPCISize is stored when the declaration does not print a company size.
const DefaultCOPCISize = "NO REGISTRA"

// Form104Sales holds sales (codes 401-454).
type Form104Sales struct {
	LocalTaxedGross                float64 `db:"ventas_locales_gravadas_bruto" json:"ventas_locales_gravadas_bruto"`
	FixedAssetsTaxedGross          float64 `db:"ventas_activos_fijos_gravadas_bruto" json:"ventas_activos_fijos_gravadas_bruto"`
	LocalZeroNoCreditGross         float64 `db:"ventas_locales_tarifa_cero_sin_credito_bruto" json:"ventas_locales_tarifa_cero_sin_credito_bruto"`
	FixedAssetsZeroNoCreditGross   float64 `db:"ventas_activos_fijos_tarifa_cero_sin_credito_bruto" json:"ventas_activos_fijos_tarifa_cero_sin_credito_bruto"`
	LocalZeroWithCreditGross       float64 `db:"ventas_locales_tarifa_cero_con_credito_bruto" json:"ventas_locales_tarifa_cero_con_credito_bruto"`
	FixedAssetsZeroWithCreditGross float64 `db:"ventas_activos_fijos_tarifa_cero_con_credito_bruto" json:"ventas_activos_fijos_tarifa_cero_con_credito_bruto"`
	GoodsExportsGross              float64 `db:"exportaciones_bienes_bruto" json:"exportaciones_bienes_bruto"`
	ServiceExportsGross            float64 `db:"exportaciones_servicios_bruto" json:"exportaciones_servicios_bruto"`
	TotalSalesGross                float64 `db:"total_ventas_bruto" json:"total_ventas_bruto"`
	FivePercentGross               float64 `db:"ventas_tarifa_cinco_bruto" json:"ventas_tarifa_cinco_bruto"`
	LocalTaxedNet                  float64 `db:"ventas_locales_gravadas_neto" json:"ventas_locales_gravadas_neto"`
	FixedAssetsTaxedNet            float64 `db:"ventas_activos_fijos_gravadas_neto" json:"ventas_activos_fijos_gravadas_neto"`
	LocalZeroNoCreditNet           float64 `db:"ventas_locales_tarifa_cero_sin_credito_neto" json:"ventas_locales_tarifa_cero_sin_credito_neto"`
	FixedAssetsZeroNoCreditNet     float64 `db:"ventas_activos_fijos_tarifa_cero_sin_credito_neto" json:"ventas_activos_fijos_tarifa_cero_sin_credito_neto"`
	LocalZeroWithCreditNet         float64 `db:"ventas_locales_tarifa_cero_con_credito_neto" json:"ventas_locales_tarifa_cero_con_credito_neto"`
	FixedAssetsZeroWithCreditNet   float64 `db:"ventas_activos_fijos_tarifa_cero_con_credito_neto" json:"ventas_activos_fijos_tarifa_cero_con_credito_neto"`
	GoodsExportsNet                float64 `db:"exportaciones_bienes_neto" json:"exportaciones_bienes_neto"`
	ServiceExportsNet              float64 `db:"exportaciones_servicios_neto" json:"exportaciones_servicios_neto"`
	TotalSalesNet                  float64 `db:"total_ventas_neto" json:"total_ventas_neto"`
	FivePercentNet                 float64 `db:"ventas_tarifa_cinco_neto" json:"ventas_tarifa_cinco_neto"`
	LocalTaxedTax                  float64 `db:"ventas_locales_gravadas_impuesto" json:"ventas_locales_gravadas_impuesto"`
	FixedAssetsTaxedTax            float64 `db:"ventas_activos_fijos_gravadas_impuesto" json:"ventas_activos_fijos_gravadas_impuesto"`
	CreditNoteAdjustmentPayable    float64 `db:"ajuste_notas_credito_impuesto_pagar" json:"ajuste_notas_credito_impuesto_pagar"`
	CreditNoteAdjustmentRefund     float64 `db:"ajuste_notas_credito_impuesto_favor" json:"ajuste_notas_credito_impuesto_favor"`
	FivePercentTax                 float64 `db:"ventas_tarifa_cinco_impuesto" json:"ventas_tarifa_cinco_impuesto"`
	TotalSalesTax                  float64 `db:"total_ventas_impuesto" json:"total_ventas_impuesto"`
	NotSubjectTransfers            float64 `db:"transferencias_no_objeto_iva" json:"transferencias_no_objeto_iva"`
	ExemptTransfers                float64 `db:"transferencias_exentas_iva" json:"transferencias_exentas_iva"`
	IntermediaryRefundGross        float64 `db:"reembolso_intermediario_bruto" json:"reembolso_intermediario_bruto"`
	ZeroRateCreditNotes            float64 `db:"notas_credito_tarifa_cero_compensar" json:"notas_credito_tarifa_cero_compensar"`
	TaxedCreditNotes               float64 `db:"notas_credito_gravadas_compensar" json:"notas_credito_gravadas_compensar"`
	IntermediaryRefundNet          float64 `db:"reembolso_intermediario_neto" json:"reembolso_intermediario_neto"`
	TaxedCreditNotesTax            float64 `db:"notas_credito_gravadas_compensar_impuesto" json:"notas_credito_gravadas_compensar_impuesto"`
	IntermediaryRefundTax          float64 `db:"reembolso_intermediario_impuesto" json:"reembolso_intermediario_impuesto"`
}

// Form104Settlement holds monthly VAT settlement (codes 480-499).
type Form104Settlement struct {
	CashTransfers        float64 `db:"transferencias_contado_mes" json:"transferencias_contado_mes"`
	CreditTransfers      float64 `db:"transferencias_credito_mes" json:"transferencias_credito_mes"`
	TaxGenerated         float64 `db:"impuesto_generado_total" json:"impuesto_generado_total"`
	TaxFromPreviousMonth float64 `db:"impuesto_liquidar_mes_anterior" json:"impuesto_liquidar_mes_anterior"`
	TaxThisMonth         float64 `db:"impuesto_liquidar_este_mes" json:"impuesto_liquidar_este_mes"`
	TaxNextMonth         float64 `db:"impuesto_liquidar_proximo_mes" json:"impuesto_liquidar_proximo_mes"`
	CreditPaymentMonth   int     `db:"mes_pago_credito" json:"mes_pago_credito"`
	TotalTaxToSettle     float64 `db:"total_impuesto_liquidar_mes" json:"total_impuesto_liquidar_mes"`
}

// Form104Purchases holds purchases and imports (codes 500-565).
type Form104Purchases struct {
	TaxedPurchasesGross         float64 `db:"adquisiciones_gravadas_bruto" json:"adquisiciones_gravadas_bruto"`
	TaxedFixedAssetsGross       float64 `db:"adquisiciones_activos_fijos_gravadas_bruto" json:"adquisiciones_activos_fijos_gravadas_bruto"`
	NoCreditPurchasesGross      float64 `db:"otras_adquisiciones_sin_credito_bruto" json:"otras_adquisiciones_sin_credito_bruto"`
	ServiceImportsGross         float64 `db:"importaciones_servicios_bruto" json:"importaciones_servicios_bruto"`
	GoodsImportsGross           float64 `db:"importaciones_bienes_bruto" json:"importaciones_bienes_bruto"`
	FixedAssetImportsGross      float64 `db:"importaciones_activos_fijos_bruto" json:"importaciones_activos_fijos_bruto"`
	ZeroRateImportsGross        float64 `db:"importaciones_tarifa_cero_bruto" json:"importaciones_tarifa_cero_bruto"`
	ZeroRatePurchasesGross      float64 `db:"adquisiciones_tarifa_cero_bruto" json:"adquisiciones_tarifa_cero_bruto"`
	SimplifiedRegimeGross       float64 `db:"adquisiciones_rise_bruto" json:"adquisiciones_rise_bruto"`
	TotalPurchasesGross         float64 `db:"total_adquisiciones_bruto" json:"total_adquisiciones_bruto"`
	TaxedPurchasesNet           float64 `db:"adquisiciones_gravadas_neto" json:"adquisiciones_gravadas_neto"`
	TaxedFixedAssetsNet         float64 `db:"adquisiciones_activos_fijos_gravadas_neto" json:"adquisiciones_activos_fijos_gravadas_neto"`
	NoCreditPurchasesNet        float64 `db:"otras_adquisiciones_sin_credito_neto" json:"otras_adquisiciones_sin_credito_neto"`
	ServiceImportsNet           float64 `db:"importaciones_servicios_neto" json:"importaciones_servicios_neto"`
	GoodsImportsNet             float64 `db:"importaciones_bienes_neto" json:"importaciones_bienes_neto"`
	FixedAssetImportsNet        float64 `db:"importaciones_activos_fijos_neto" json:"importaciones_activos_fijos_neto"`
	ZeroRateImportsNet          float64 `db:"importaciones_tarifa_cero_neto" json:"importaciones_tarifa_cero_neto"`
	ZeroRatePurchasesNet        float64 `db:"adquisiciones_tarifa_cero_neto" json:"adquisiciones_tarifa_cero_neto"`
	SimplifiedRegimeNet         float64 `db:"adquisiciones_rise_neto" json:"adquisiciones_rise_neto"`
	TotalPurchasesNet           float64 `db:"total_adquisiciones_neto" json:"total_adquisiciones_neto"`
	TaxedPurchasesTax           float64 `db:"adquisiciones_gravadas_impuesto" json:"adquisiciones_gravadas_impuesto"`
	TaxedFixedAssetsTax         float64 `db:"adquisiciones_activos_fijos_gravadas_impuesto" json:"adquisiciones_activos_fijos_gravadas_impuesto"`
	NoCreditPurchasesTax        float64 `db:"otras_adquisiciones_sin_credito_impuesto" json:"otras_adquisiciones_sin_credito_impuesto"`
	ServiceImportsTax           float64 `db:"importaciones_servicios_impuesto" json:"importaciones_servicios_impuesto"`
	GoodsImportsTax             float64 `db:"importaciones_bienes_impuesto" json:"importaciones_bienes_impuesto"`
	FixedAssetImportsTax        float64 `db:"importaciones_activos_fijos_impuesto" json:"importaciones_activos_fijos_impuesto"`
	CreditNoteAdjustmentUp      float64 `db:"ajuste_adquisiciones_notas_credito_positivo" json:"ajuste_adquisiciones_notas_credito_positivo"`
	CreditNoteAdjustmentDown    float64 `db:"ajuste_adquisiciones_notas_credito_negativo" json:"ajuste_adquisiciones_notas_credito_negativo"`
	TotalPurchasesTax           float64 `db:"total_adquisiciones_impuesto" json:"total_adquisiciones_impuesto"`
	NotSubjectPurchases         float64 `db:"adquisiciones_no_objeto_iva" json:"adquisiciones_no_objeto_iva"`
	ExemptPurchases             float64 `db:"adquisiciones_exentas_iva" json:"adquisiciones_exentas_iva"`
	IntermediaryPaymentsGross   float64 `db:"pagos_reembolso_intermediario_bruto" json:"pagos_reembolso_intermediario_bruto"`
	ExpenseRefundGross          float64 `db:"reembolso_gastos_bruto" json:"reembolso_gastos_bruto"`
	ZeroRatePurchaseCreditNotes float64 `db:"notas_credito_adquisiciones_tarifa_cero" json:"notas_credito_adquisiciones_tarifa_cero"`
	TaxedPurchaseCreditNotes    float64 `db:"notas_credito_adquisiciones_gravadas" json:"notas_credito_adquisiciones_gravadas"`
	TaxedPurchaseCreditNotesTax float64 `db:"notas_credito_adquisiciones_gravadas_impuesto" json:"notas_credito_adquisiciones_gravadas_impuesto"`
	IntermediaryPaymentsNet     float64 `db:"pagos_reembolso_intermediario_neto" json:"pagos_reembolso_intermediario_neto"`
	ExpenseRefundNet            float64 `db:"reembolso_gastos_neto" json:"reembolso_gastos_neto"`
	FivePercentPurchasesGross   float64 `db:"adquisiciones_tarifa_cinco_bruto" json:"adquisiciones_tarifa_cinco_bruto"`
	FivePercentPurchasesNet     float64 `db:"adquisiciones_tarifa_cinco_neto" json:"adquisiciones_tarifa_cinco_neto"`
	FivePercentPurchasesTax     float64 `db:"adquisiciones_tarifa_cinco_impuesto" json:"adquisiciones_tarifa_cinco_impuesto"`
	IntermediaryPaymentsTax     float64 `db:"pagos_reembolso_intermediario_impuesto" json:"pagos_reembolso_intermediario_impuesto"`
	ExpenseRefundTax            float64 `db:"reembolso_gastos_impuesto" json:"reembolso_gastos_impuesto"`
	ProportionalityFactor       float64 `db:"factor_proporcionalidad" json:"factor_proporcionalidad"`
	ApplicableTaxCredit         float64 `db:"credito_tributario_aplicable" json:"credito_tributario_aplicable"`
	NonCreditableTax            float64 `db:"iva_no_considerado_credito" json:"iva_no_considerado_credito"`
}

// Form104ExportRefund holds exporter VAT refund (codes 700-702).
type Form104ExportRefund struct {
	ExportRefundBase    float64 `db:"exportaciones_base_devolucion" json:"exportaciones_base_devolucion"`
	ExporterPurchaseTax float64 `db:"iva_adquisiciones_exportador" json:"iva_adquisiciones_exportador"`
	RefundRequested     float64 `db:"iva_devolucion_solicitada" json:"iva_devolucion_solicitada"`
}

// Form104Totals holds settlement totals and payment (codes 601-699, 799-999).
type Form104Totals struct {
	TaxCaused                     float64 `db:"impuesto_causado" json:"impuesto_causado"`
	PeriodTaxCredit               float64 `db:"credito_tributario_periodo" json:"credito_tributario_periodo"`
	ElectronicPaymentCompensation float64 `db:"compensacion_iva_medios_electronicos" json:"compensacion_iva_medios_electronicos"`
	AffectedZonesCompensation     float64 `db:"compensacion_iva_zonas_afectadas" json:"compensacion_iva_zonas_afectadas"`
	PriorCreditPurchases          float64 `db:"saldo_credito_anterior_adquisiciones" json:"saldo_credito_anterior_adquisiciones"`
	PriorCreditWithholdings       float64 `db:"saldo_credito_anterior_retenciones" json:"saldo_credito_anterior_retenciones"`
	PriorCreditCompensations      float64 `db:"saldo_credito_anterior_compensaciones" json:"saldo_credito_anterior_compensaciones"`
	PriorCreditSolidarity         float64 `db:"saldo_credito_anterior_ley_solidaria" json:"saldo_credito_anterior_ley_solidaria"`
	PeriodWithholdings            float64 `db:"retenciones_efectuadas_periodo" json:"retenciones_efectuadas_periodo"`
	RefundAdjustmentPurchases     float64 `db:"ajuste_iva_devuelto_adquisiciones" json:"ajuste_iva_devuelto_adquisiciones"`
	RefundAdjustmentWithholdings  float64 `db:"ajuste_iva_devuelto_retenciones" json:"ajuste_iva_devuelto_retenciones"`
	RefundAdjustmentInstitutions  float64 `db:"ajuste_iva_devuelto_otras_instituciones" json:"ajuste_iva_devuelto_otras_instituciones"`
	RefundAdjustmentExporters     float64 `db:"ajuste_iva_devuelto_exportadores" json:"ajuste_iva_devuelto_exportadores"`
	NextCreditSolidarity          float64 `db:"saldo_credito_proximo_ley_solidaria" json:"saldo_credito_proximo_ley_solidaria"`
	NextCreditPurchases           float64 `db:"saldo_credito_proximo_adquisiciones" json:"saldo_credito_proximo_adquisiciones"`
	NextCreditCompensations       float64 `db:"saldo_credito_proximo_compensaciones" json:"saldo_credito_proximo_compensaciones"`
	NextCreditWithholdings        float64 `db:"saldo_credito_proximo_retenciones" json:"saldo_credito_proximo_retenciones"`
	UncompensatedTaxPaid          float64 `db:"iva_pagado_no_compensado" json:"iva_pagado_no_compensado"`
	SubtotalDue                   float64 `db:"subtotal_a_pagar" json:"subtotal_a_pagar"`
	PresumptiveGamingTax          float64 `db:"iva_presuntivo_salas_juego" json:"iva_presuntivo_salas_juego"`
	COPCISize                     string  `db:"tamano_copci" json:"tamano_copci"`
	TotalTaxDueCollection         float64 `db:"total_impuesto_pagar_percepcion" json:"total_impuesto_pagar_percepcion"`
	TotalTaxWithheld              float64 `db:"total_impuesto_retenido" json:"total_impuesto_retenido"`
	ProvisionalRefundCompensation float64 `db:"devolucion_provisional_compensacion" json:"devolucion_provisional_compensacion"`
	TotalTaxDueWithholding        float64 `db:"total_impuesto_pagar_retencion" json:"total_impuesto_pagar_retencion"`
	ConsolidatedTax               float64 `db:"total_consolidado_iva" json:"total_consolidado_iva"`
	PreviousPayment               float64 `db:"pago_previo" json:"pago_previo"`
	PreviousPaymentInterest       float64 `db:"intereses_pago_previo" json:"intereses_pago_previo"`
	PreviousPaymentPenalty        float64 `db:"multas_pago_previo" json:"multas_pago_previo"`
	TotalTaxDue                   float64 `db:"total_impuesto_pagar" json:"total_impuesto_pagar"`
	LateInterest                  float64 `db:"interes_mora" json:"interes_mora"`
	Penalty                       float64 `db:"multa" json:"multa"`
	PaidByCreditNotes             float64 `db:"pago_notas_credito" json:"pago_notas_credito"`
	PaidByCompensation            float64 `db:"pago_compensaciones" json:"pago_compensaciones"`
	PaidByOtherMeans              float64 `db:"pago_otros_medios" json:"pago_otros_medios"`
	TotalPaid                     float64 `db:"total_pagado" json:"total_pagado"`
}

// Form104Withholding is one VAT withholding bracket.
type Form104Withholding struct {
	ID         uuid.UUID `db:"id" json:"-"`
	DocumentID uuid.UUID `db:"document_id" json:"-"`
	Code       string    `db:"code" json:"codigo"`
	Percentage int       `db:"percentage" json:"porcentaje"`
	Value      float64   `db:"value" json:"valor"`
}

// WithholdingBrackets are the six statutory brackets in print order.
var WithholdingBrackets = []Form104Withholding{
	{Code: "721", Percentage: 10},
	{Code: "723", Percentage: 20},
	{Code: "725", Percentage: 30},
	{Code: "727", Percentage: 50},
	{Code: "729", Percentage: 70},
	{Code: "731", Percentage: 100},
}

// Form104Record is the decoded content of a VAT declaration. Its shape is
// fixed: every field of Form104Fields is always present.
type Form104Record struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	DocumentID          uuid.UUID `db:"document_id" json:"document_id"`
	Form104Sales        `json:"ventas"`
	Form104Settlement   `json:"liquidacion"`
	Form104Purchases    `json:"adquisiciones"`
	Form104ExportRefund `json:"devolucion_exportadores"`
	Form104Totals       `json:"totales"`
	Withholdings        []Form104Withholding `db:"-" json:"retenciones_iva"`
}

// NewForm104Record returns a record with every default applied.
func NewForm104Record() *Form104Record {
	r := &Form104Record{}
	r.COPCISize = DefaultCOPCISize
	r.Withholdings = make([]Form104Withholding, len(WithholdingBrackets))
	copy(r.Withholdings, WithholdingBrackets)
	return r
}

// FieldKind is the value type of a Form104Field.
type FieldKind int

const (
	KindAmount FieldKind = iota
	KindInteger
	KindText
)

// Form104Field maps one printed form code to a record field.
type Form104Field struct {
	Section Form104Section
	Code    string
	Column  string
	Kind    FieldKind
	amount  func(*Form104Record) *float64
	integer func(*Form104Record) *int
	text    func(*Form104Record) *string
}

// Value returns the current value of the field in r.
func (f Form104Field) Value(r *Form104Record) any {
	switch f.Kind {
	case KindInteger:
		return *f.integer(r)
	case KindText:
		return *f.text(r)
	default:
		return *f.amount(r)
	}
}

// SetAmount stores v; it is a no-op for non-amount fields.
func (f Form104Field) SetAmount(r *Form104Record, v float64) {
	if f.Kind == KindAmount {
		*f.amount(r) = v
	}
}

// SetInteger stores v; it is a no-op for non-integer fields.
func (f Form104Field) SetInteger(r *Form104Record, v int) {
	if f.Kind == KindInteger {
		*f.integer(r) = v
	}
}

// SetText stores v; it is a no-op for non-text fields.
func (f Form104Field) SetText(r *Form104Record, v string) {
	if f.Kind == KindText {
		*f.text(r) = v
	}
}

func amountField(s Form104Section, code, column string, ref func(*Form104Record) *float64) Form104Field {
	return Form104Field{Section: s, Code: code, Column: column, Kind: KindAmount, amount: ref}
}

// Form104Fields is the complete code table of the VAT declaration. Decoding,
// persistence and export all iterate it.
var Form104Fields = []Form104Field{
	// Sales (codes 401-454).
	amountField(SectionSales, "401", "ventas_locales_gravadas_bruto", func(r *Form104Record) *float64 { return &r.LocalTaxedGross }),
	amountField(SectionSales, "402", "ventas_activos_fijos_gravadas_bruto", func(r *Form104Record) *float64 { return &r.FixedAssetsTaxedGross }),
	amountField(SectionSales, "403", "ventas_locales_tarifa_cero_sin_credito_bruto", func(r *Form104Record) *float64 { return &r.LocalZeroNoCreditGross }),
	amountField(SectionSales, "404", "ventas_activos_fijos_tarifa_cero_sin_credito_bruto", func(r *Form104Record) *float64 { return &r.FixedAssetsZeroNoCreditGross }),
	amountField(SectionSales, "405", "ventas_locales_tarifa_cero_con_credito_bruto", func(r *Form104Record) *float64 { return &r.LocalZeroWithCreditGross }),
	amountField(SectionSales, "406", "ventas_activos_fijos_tarifa_cero_con_credito_bruto", func(r *Form104Record) *float64 { return &r.FixedAssetsZeroWithCreditGross }),
	amountField(SectionSales, "407", "exportaciones_bienes_bruto", func(r *Form104Record) *float64 { return &r.GoodsExportsGross }),
	amountField(SectionSales, "408", "exportaciones_servicios_bruto", func(r *Form104Record) *float64 { return &r.ServiceExportsGross }),
	amountField(SectionSales, "409", "total_ventas_bruto", func(r *Form104Record) *float64 { return &r.TotalSalesGross }),
	amountField(SectionSales, "410", "ventas_tarifa_cinco_bruto", func(r *Form104Record) *float64 { return &r.FivePercentGross }),
	amountField(SectionSales, "411", "ventas_locales_gravadas_neto", func(r *Form104Record) *float64 { return &r.LocalTaxedNet }),
	amountField(SectionSales, "412", "ventas_activos_fijos_gravadas_neto", func(r *Form104Record) *float64 { return &r.FixedAssetsTaxedNet }),
	amountField(SectionSales, "413", "ventas_locales_tarifa_cero_sin_credito_neto", func(r *Form104Record) *float64 { return &r.LocalZeroNoCreditNet }),
	amountField(SectionSales, "414", "ventas_activos_fijos_tarifa_cero_sin_credito_neto", func(r *Form104Record) *float64 { return &r.FixedAssetsZeroNoCreditNet }),
	amountField(SectionSales, "415", "ventas_locales_tarifa_cero_con_credito_neto", func(r *Form104Record) *float64 { return &r.LocalZeroWithCreditNet }),
	amountField(SectionSales, "416", "ventas_activos_fijos_tarifa_cero_con_credito_neto", func(r *Form104Record) *float64 { return &r.FixedAssetsZeroWithCreditNet }),
	amountField(SectionSales, "417", "exportaciones_bienes_neto", func(r *Form104Record) *float64 { return &r.GoodsExportsNet }),
	amountField(SectionSales, "418", "exportaciones_servicios_neto", func(r *Form104Record) *float64 { return &r.ServiceExportsNet }),
	amountField(SectionSales, "419", "total_ventas_neto", func(r *Form104Record) *float64 { return &r.TotalSalesNet }),
	amountField(SectionSales, "420", "ventas_tarifa_cinco_neto", func(r *Form104Record) *float64 { return &r.FivePercentNet }),
	amountField(SectionSales, "421", "ventas_locales_gravadas_impuesto", func(r *Form104Record) *float64 { return &r.LocalTaxedTax }),
	amountField(SectionSales, "422", "ventas_activos_fijos_gravadas_impuesto", func(r *Form104Record) *float64 { return &r.FixedAssetsTaxedTax }),
	amountField(SectionSales, "423", "ajuste_notas_credito_impuesto_pagar", func(r *Form104Record) *float64 { return &r.CreditNoteAdjustmentPayable }),
	amountField(SectionSales, "424", "ajuste_notas_credito_impuesto_favor", func(r *Form104Record) *float64 { return &r.CreditNoteAdjustmentRefund }),
	amountField(SectionSales, "425", "ventas_tarifa_cinco_impuesto", func(r *Form104Record) *float64 { return &r.FivePercentTax }),
	amountField(SectionSales, "429", "total_ventas_impuesto", func(r *Form104Record) *float64 { return &r.TotalSalesTax }),
	amountField(SectionSales, "431", "transferencias_no_objeto_iva", func(r *Form104Record) *float64 { return &r.NotSubjectTransfers }),
	amountField(SectionSales, "432", "transferencias_exentas_iva", func(r *Form104Record) *float64 { return &r.ExemptTransfers }),
	amountField(SectionSales, "434", "reembolso_intermediario_bruto", func(r *Form104Record) *float64 { return &r.IntermediaryRefundGross }),
	amountField(SectionSales, "441", "notas_credito_tarifa_cero_compensar", func(r *Form104Record) *float64 { return &r.ZeroRateCreditNotes }),
	amountField(SectionSales, "442", "notas_credito_gravadas_compensar", func(r *Form104Record) *float64 { return &r.TaxedCreditNotes }),
	amountField(SectionSales, "444", "reembolso_intermediario_neto", func(r *Form104Record) *float64 { return &r.IntermediaryRefundNet }),
	amountField(SectionSales, "453", "notas_credito_gravadas_compensar_impuesto", func(r *Form104Record) *float64 { return &r.TaxedCreditNotesTax }),
	amountField(SectionSales, "454", "reembolso_intermediario_impuesto", func(r *Form104Record) *float64 { return &r.IntermediaryRefundTax }),
	// Monthly VAT settlement (codes 480-499).
	amountField(SectionSettlement, "480", "transferencias_contado_mes", func(r *Form104Record) *float64 { return &r.CashTransfers }),
	amountField(SectionSettlement, "481", "transferencias_credito_mes", func(r *Form104Record) *float64 { return &r.CreditTransfers }),
	amountField(SectionSettlement, "482", "impuesto_generado_total", func(r *Form104Record) *float64 { return &r.TaxGenerated }),
	amountField(SectionSettlement, "483", "impuesto_liquidar_mes_anterior", func(r *Form104Record) *float64 { return &r.TaxFromPreviousMonth }),
	amountField(SectionSettlement, "484", "impuesto_liquidar_este_mes", func(r *Form104Record) *float64 { return &r.TaxThisMonth }),
	amountField(SectionSettlement, "485", "impuesto_liquidar_proximo_mes", func(r *Form104Record) *float64 { return &r.TaxNextMonth }),
	{Section: SectionSettlement, Code: "486", Column: "mes_pago_credito", Kind: KindInteger,
		integer: func(r *Form104Record) *int { return &r.CreditPaymentMonth }},
	amountField(SectionSettlement, "499", "total_impuesto_liquidar_mes", func(r *Form104Record) *float64 { return &r.TotalTaxToSettle }),
	// Purchases and imports (codes 500-565).
	amountField(SectionPurchases, "500", "adquisiciones_gravadas_bruto", func(r *Form104Record) *float64 { return &r.TaxedPurchasesGross }),
	amountField(SectionPurchases, "501", "adquisiciones_activos_fijos_gravadas_bruto", func(r *Form104Record) *float64 { return &r.TaxedFixedAssetsGross }),
	amountField(SectionPurchases, "502", "otras_adquisiciones_sin_credito_bruto", func(r *Form104Record) *float64 { return &r.NoCreditPurchasesGross }),
	amountField(SectionPurchases, "503", "importaciones_servicios_bruto", func(r *Form104Record) *float64 { return &r.ServiceImportsGross }),
	amountField(SectionPurchases, "504", "importaciones_bienes_bruto", func(r *Form104Record) *float64 { return &r.GoodsImportsGross }),
	amountField(SectionPurchases, "505", "importaciones_activos_fijos_bruto", func(r *Form104Record) *float64 { return &r.FixedAssetImportsGross }),
	amountField(SectionPurchases, "506", "importaciones_tarifa_cero_bruto", func(r *Form104Record) *float64 { return &r.ZeroRateImportsGross }),
	amountField(SectionPurchases, "507", "adquisiciones_tarifa_cero_bruto", func(r *Form104Record) *float64 { return &r.ZeroRatePurchasesGross }),
	amountField(SectionPurchases, "508", "adquisiciones_rise_bruto", func(r *Form104Record) *float64 { return &r.SimplifiedRegimeGross }),
	amountField(SectionPurchases, "509", "total_adquisiciones_bruto", func(r *Form104Record) *float64 { return &r.TotalPurchasesGross }),
	amountField(SectionPurchases, "510", "adquisiciones_gravadas_neto", func(r *Form104Record) *float64 { return &r.TaxedPurchasesNet }),
	amountField(SectionPurchases, "511", "adquisiciones_activos_fijos_gravadas_neto", func(r *Form104Record) *float64 { return &r.TaxedFixedAssetsNet }),
	amountField(SectionPurchases, "512", "otras_adquisiciones_sin_credito_neto", func(r *Form104Record) *float64 { return &r.NoCreditPurchasesNet }),
	amountField(SectionPurchases, "513", "importaciones_servicios_neto", func(r *Form104Record) *float64 { return &r.ServiceImportsNet }),
	amountField(SectionPurchases, "514", "importaciones_bienes_neto", func(r *Form104Record) *float64 { return &r.GoodsImportsNet }),
	amountField(SectionPurchases, "515", "importaciones_activos_fijos_neto", func(r *Form104Record) *float64 { return &r.FixedAssetImportsNet }),
	amountField(SectionPurchases, "516", "importaciones_tarifa_cero_neto", func(r *Form104Record) *float64 { return &r.ZeroRateImportsNet }),
	amountField(SectionPurchases, "517", "adquisiciones_tarifa_cero_neto", func(r *Form104Record) *float64 { return &r.ZeroRatePurchasesNet }),
	amountField(SectionPurchases, "518", "adquisiciones_rise_neto", func(r *Form104Record) *float64 { return &r.SimplifiedRegimeNet }),
	amountField(SectionPurchases, "519", "total_adquisiciones_neto", func(r *Form104Record) *float64 { return &r.TotalPurchasesNet }),
	amountField(SectionPurchases, "520", "adquisiciones_gravadas_impuesto", func(r *Form104Record) *float64 { return &r.TaxedPurchasesTax }),
	amountField(SectionPurchases, "521", "adquisiciones_activos_fijos_gravadas_impuesto", func(r *Form104Record) *float64 { return &r.TaxedFixedAssetsTax }),
	amountField(SectionPurchases, "522", "otras_adquisiciones_sin_credito_impuesto", func(r *Form104Record) *float64 { return &r.NoCreditPurchasesTax }),
	amountField(SectionPurchases, "523", "importaciones_servicios_impuesto", func(r *Form104Record) *float64 { return &r.ServiceImportsTax }),
	amountField(SectionPurchases, "524", "importaciones_bienes_impuesto", func(r *Form104Record) *float64 { return &r.GoodsImportsTax }),
	amountField(SectionPurchases, "525", "importaciones_activos_fijos_impuesto", func(r *Form104Record) *float64 { return &r.FixedAssetImportsTax }),
	amountField(SectionPurchases, "526", "ajuste_adquisiciones_notas_credito_positivo", func(r *Form104Record) *float64 { return &r.CreditNoteAdjustmentUp }),
	amountField(SectionPurchases, "527", "ajuste_adquisiciones_notas_credito_negativo", func(r *Form104Record) *float64 { return &r.CreditNoteAdjustmentDown }),
	amountField(SectionPurchases, "529", "total_adquisiciones_impuesto", func(r *Form104Record) *float64 { return &r.TotalPurchasesTax }),
	amountField(SectionPurchases, "531", "adquisiciones_no_objeto_iva", func(r *Form104Record) *float64 { return &r.NotSubjectPurchases }),
	amountField(SectionPurchases, "532", "adquisiciones_exentas_iva", func(r *Form104Record) *float64 { return &r.ExemptPurchases }),
	amountField(SectionPurchases, "534", "pagos_reembolso_intermediario_bruto", func(r *Form104Record) *float64 { return &r.IntermediaryPaymentsGross }),
	amountField(SectionPurchases, "535", "reembolso_gastos_bruto", func(r *Form104Record) *float64 { return &r.ExpenseRefundGross }),
	amountField(SectionPurchases, "541", "notas_credito_adquisiciones_tarifa_cero", func(r *Form104Record) *float64 { return &r.ZeroRatePurchaseCreditNotes }),
	amountField(SectionPurchases, "542", "notas_credito_adquisiciones_gravadas", func(r *Form104Record) *float64 { return &r.TaxedPurchaseCreditNotes }),
	amountField(SectionPurchases, "543", "notas_credito_adquisiciones_gravadas_impuesto", func(r *Form104Record) *float64 { return &r.TaxedPurchaseCreditNotesTax }),
	amountField(SectionPurchases, "544", "pagos_reembolso_intermediario_neto", func(r *Form104Record) *float64 { return &r.IntermediaryPaymentsNet }),
	amountField(SectionPurchases, "545", "reembolso_gastos_neto", func(r *Form104Record) *float64 { return &r.ExpenseRefundNet }),
	amountField(SectionPurchases, "550", "adquisiciones_tarifa_cinco_bruto", func(r *Form104Record) *float64 { return &r.FivePercentPurchasesGross }),
	amountField(SectionPurchases, "551", "adquisiciones_tarifa_cinco_neto", func(r *Form104Record) *float64 { return &r.FivePercentPurchasesNet }),
	amountField(SectionPurchases, "552", "adquisiciones_tarifa_cinco_impuesto", func(r *Form104Record) *float64 { return &r.FivePercentPurchasesTax }),
	amountField(SectionPurchases, "554", "pagos_reembolso_intermediario_impuesto", func(r *Form104Record) *float64 { return &r.IntermediaryPaymentsTax }),
	amountField(SectionPurchases, "555", "reembolso_gastos_impuesto", func(r *Form104Record) *float64 { return &r.ExpenseRefundTax }),
	amountField(SectionPurchases, "563", "factor_proporcionalidad", func(r *Form104Record) *float64 { return &r.ProportionalityFactor }),
	amountField(SectionPurchases, "564", "credito_tributario_aplicable", func(r *Form104Record) *float64 { return &r.ApplicableTaxCredit }),
	amountField(SectionPurchases, "565", "iva_no_considerado_credito", func(r *Form104Record) *float64 { return &r.NonCreditableTax }),
	// Exporter VAT refund (codes 700-702).
	amountField(SectionExportRefund, "700", "exportaciones_base_devolucion", func(r *Form104Record) *float64 { return &r.ExportRefundBase }),
	amountField(SectionExportRefund, "701", "iva_adquisiciones_exportador", func(r *Form104Record) *float64 { return &r.ExporterPurchaseTax }),
	amountField(SectionExportRefund, "702", "iva_devolucion_solicitada", func(r *Form104Record) *float64 { return &r.RefundRequested }),
	// Settlement totals and payment (codes 601-699, 799-999).
	amountField(SectionTotals, "601", "impuesto_causado", func(r *Form104Record) *float64 { return &r.TaxCaused }),
	amountField(SectionTotals, "602", "credito_tributario_periodo", func(r *Form104Record) *float64 { return &r.PeriodTaxCredit }),
	amountField(SectionTotals, "603", "compensacion_iva_medios_electronicos", func(r *Form104Record) *float64 { return &r.ElectronicPaymentCompensation }),
	amountField(SectionTotals, "604", "compensacion_iva_zonas_afectadas", func(r *Form104Record) *float64 { return &r.AffectedZonesCompensation }),
	amountField(SectionTotals, "605", "saldo_credito_anterior_adquisiciones", func(r *Form104Record) *float64 { return &r.PriorCreditPurchases }),
	amountField(SectionTotals, "606", "saldo_credito_anterior_retenciones", func(r *Form104Record) *float64 { return &r.PriorCreditWithholdings }),
	amountField(SectionTotals, "607", "saldo_credito_anterior_compensaciones", func(r *Form104Record) *float64 { return &r.PriorCreditCompensations }),
	amountField(SectionTotals, "608", "saldo_credito_anterior_ley_solidaria", func(r *Form104Record) *float64 { return &r.PriorCreditSolidarity }),
	amountField(SectionTotals, "609", "retenciones_efectuadas_periodo", func(r *Form104Record) *float64 { return &r.PeriodWithholdings }),
	amountField(SectionTotals, "610", "ajuste_iva_devuelto_adquisiciones", func(r *Form104Record) *float64 { return &r.RefundAdjustmentPurchases }),
	amountField(SectionTotals, "611", "ajuste_iva_devuelto_retenciones", func(r *Form104Record) *float64 { return &r.RefundAdjustmentWithholdings }),
	amountField(SectionTotals, "612", "ajuste_iva_devuelto_otras_instituciones", func(r *Form104Record) *float64 { return &r.RefundAdjustmentInstitutions }),
	amountField(SectionTotals, "613", "ajuste_iva_devuelto_exportadores", func(r *Form104Record) *float64 { return &r.RefundAdjustmentExporters }),
	amountField(SectionTotals, "614", "saldo_credito_proximo_ley_solidaria", func(r *Form104Record) *float64 { return &r.NextCreditSolidarity }),
	amountField(SectionTotals, "615", "saldo_credito_proximo_adquisiciones", func(r *Form104Record) *float64 { return &r.NextCreditPurchases }),
	amountField(SectionTotals, "616", "saldo_credito_proximo_compensaciones", func(r *Form104Record) *float64 { return &r.NextCreditCompensations }),
	amountField(SectionTotals, "617", "saldo_credito_proximo_retenciones", func(r *Form104Record) *float64 { return &r.NextCreditWithholdings }),
	amountField(SectionTotals, "618", "iva_pagado_no_compensado", func(r *Form104Record) *float64 { return &r.UncompensatedTaxPaid }),
	amountField(SectionTotals, "620", "subtotal_a_pagar", func(r *Form104Record) *float64 { return &r.SubtotalDue }),
	amountField(SectionTotals, "621", "iva_presuntivo_salas_juego", func(r *Form104Record) *float64 { return &r.PresumptiveGamingTax }),
	{Section: SectionTotals, Code: "698", Column: "tamano_copci", Kind: KindText,
		text: func(r *Form104Record) *string { return &r.COPCISize }},
	amountField(SectionTotals, "699", "total_impuesto_pagar_percepcion", func(r *Form104Record) *float64 { return &r.TotalTaxDueCollection }),
	amountField(SectionTotals, "799", "total_impuesto_retenido", func(r *Form104Record) *float64 { return &r.TotalTaxWithheld }),
	amountField(SectionTotals, "800", "devolucion_provisional_compensacion", func(r *Form104Record) *float64 { return &r.ProvisionalRefundCompensation }),
	amountField(SectionTotals, "801", "total_impuesto_pagar_retencion", func(r *Form104Record) *float64 { return &r.TotalTaxDueWithholding }),
	amountField(SectionTotals, "859", "total_consolidado_iva", func(r *Form104Record) *float64 { return &r.ConsolidatedTax }),
	amountField(SectionTotals, "890", "pago_previo", func(r *Form104Record) *float64 { return &r.PreviousPayment }),
	amountField(SectionTotals, "897", "intereses_pago_previo", func(r *Form104Record) *float64 { return &r.PreviousPaymentInterest }),
	amountField(SectionTotals, "898", "multas_pago_previo", func(r *Form104Record) *float64 { return &r.PreviousPaymentPenalty }),
	amountField(SectionTotals, "902", "total_impuesto_pagar", func(r *Form104Record) *float64 { return &r.TotalTaxDue }),
	amountField(SectionTotals, "903", "interes_mora", func(r *Form104Record) *float64 { return &r.LateInterest }),
	amountField(SectionTotals, "904", "multa", func(r *Form104Record) *float64 { return &r.Penalty }),
	amountField(SectionTotals, "905", "pago_notas_credito", func(r *Form104Record) *float64 { return &r.PaidByCreditNotes }),
	amountField(SectionTotals, "906", "pago_compensaciones", func(r *Form104Record) *float64 { return &r.PaidByCompensation }),
	amountField(SectionTotals, "907", "pago_otros_medios", func(r *Form104Record) *float64 { return &r.PaidByOtherMeans }),
	amountField(SectionTotals, "999", "total_pagado", func(r *Form104Record) *float64 { return &r.TotalPaid }),
}
