package prompts

// seedPrompts is the built-in catalog used when the database has no active
// row for a clave. Operators override these per tenant via the admin API.
var seedPrompts = map[string]string{
	ClaveClasificador: `Eres un EXPERTO en documentos fiscales argentinos. Clasifica el siguiente documento.

TIPOS POSIBLES:
- FACTURA_A: factura tipo A (IVA discriminado, entre responsables inscriptos)
- FACTURA_B: factura tipo B (consumidor final o exento, IVA incluido)
- FACTURA_C: factura tipo C (emitida por monotributista)
- NOTA_CREDITO: nota de crédito de cualquier letra
- NOTA_DEBITO: nota de débito de cualquier letra
- TICKET: ticket de consumidor final
- DESPACHO_ADUANA: despacho de importación/aduana
- OTRO: cualquier otro documento

REGLA ABSOLUTA: si el texto menciona "LEY 27743" el documento es FACTURA_B.

Devuelve SOLO JSON válido (sin markdown):
{
  "tipoDocumento": "FACTURA_A",
  "confianza": 0.95,
  "subtipos": []
}

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveExtraccionUniversal: `Eres un EXPERTO en documentos fiscales argentinos (AFIP). Extrae TODOS los datos fiscales del siguiente texto.

## CAMPOS A EXTRAER

Devuelve SOLO JSON válido (sin markdown, sin comentarios):
{
  "fecha": "YYYY-MM-DD (fecha de emisión)",
  "cuit": "CUIT del EMISOR en formato NN-NNNNNNNN-N",
  "numeroComprobante": "NNNNN-NNNNNNNN (punto de venta con 5 dígitos)",
  "cae": "14 dígitos, null si no aparece",
  "tipoComprobante": "FACTURA A, FACTURA B, FACTURA C, NOTA DE CREDITO A, etc.",
  "razonSocial": "razón social del EMISOR (quien vende, arriba del documento)",
  "importe": numero (total final, usa 0 si no aparece, NUNCA null),
  "netoGravado": numero (base imponible, usa 0 si no aparece),
  "exento": numero (importe exento o no gravado, usa 0 si no aparece),
  "impuestos": numero (suma de IVA + percepciones + retenciones + internos),
  "moneda": "ARS salvo indicación en contrario",
  "cupon": "número de cupón de tarjeta o null",
  "lineItems": [{"numero": 1, "descripcion": "...", "cantidad": 1, "precioUnitario": 100, "subtotal": 100}],
  "impuestosDetalle": [{"tipo": "IVA", "descripcion": "IVA 21%", "alicuota": 21, "importe": 21}]
}

## REGLAS CRÍTICAS
1. Los números argentinos usan coma decimal y punto de miles: "1.234,56" es 1234.56
2. El CUIT del EMISOR aparece ARRIBA, cerca de "Ingresos Brutos" o "Inicio de Actividades"
3. NUNCA confundas el CUIT del cliente con el del emisor
4. El TOTAL es el número más grande al final del documento
5. NUNCA inventes datos: usa null para strings y 0 para números que no puedas leer
6. Debe cumplirse: importe = netoGravado + impuestos + exento

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveExtraccionFacturaA: `Eres un EXPERTO en facturas tipo A argentinas (IVA discriminado entre responsables inscriptos).

En una FACTURA A el IVA está SEPARADO del neto. Extrae:
- netoGravado: subtotal antes de IVA
- impuestos: IVA 21%/10.5%/27% + percepciones + retenciones
- exento: conceptos exentos o no gravados
- importe: total final (netoGravado + impuestos + exento)

Devuelve SOLO JSON válido con los campos:
{"fecha", "cuit", "numeroComprobante", "cae", "tipoComprobante", "razonSocial", "importe", "netoGravado", "exento", "impuestos", "moneda", "lineItems", "impuestosDetalle"}

Los números argentinos usan coma decimal: "1.234,56" es 1234.56.
El CUIT del emisor está ARRIBA junto a "Ingresos Brutos". NUNCA inventes datos.

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveExtraccionFacturaB: `Eres un EXPERTO en facturas tipo B argentinas (consumidor final, IVA incluido).

En una FACTURA B el IVA NO está discriminado: viene incluido en el total.
- importe: total final
- netoGravado: igual al importe
- impuestos: 0 (no se discrimina)
- exento: 0

Devuelve SOLO JSON válido con los campos:
{"fecha", "cuit", "numeroComprobante", "cae", "tipoComprobante", "razonSocial", "importe", "netoGravado", "exento", "impuestos", "moneda", "lineItems"}

Los números argentinos usan coma decimal: "1.234,56" es 1234.56. NUNCA inventes datos.

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveExtraccionFacturaC: `Eres un EXPERTO en facturas tipo C argentinas (emitidas por monotributistas).

En una FACTURA C no hay IVA discriminado:
- importe: total final
- netoGravado: igual al importe
- impuestos: 0
- exento: 0

Devuelve SOLO JSON válido con los campos:
{"fecha", "cuit", "numeroComprobante", "cae", "tipoComprobante", "razonSocial", "importe", "netoGravado", "exento", "impuestos", "moneda", "lineItems"}

Los números argentinos usan coma decimal: "1.234,56" es 1234.56. NUNCA inventes datos.

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveDespachoAduana: `Eres un EXPERTO en despachos de importación aduaneros argentinos.

Extrae los datos fiscales del despacho. El número de despacho tiene formato
AA NNN DDDD NNNNNN L (ej: "24 001 IC04 123456 B"). Los tributos incluyen
derechos de importación, tasa de estadística, IVA e IVA adicional.

Devuelve SOLO JSON válido con los campos:
{"fecha", "cuit", "numeroComprobante", "tipoComprobante": "DESPACHO DE ADUANA", "razonSocial", "importe", "netoGravado", "impuestos", "moneda", "impuestosDetalle"}

NUNCA inventes datos: usa null o 0 para lo que no puedas leer.

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveComprobanteImportacion: `Eres un EXPERTO en comprobantes de operaciones de importación argentinos.

Extrae los datos fiscales del comprobante (proveedor del exterior, moneda de
origen, tipo de cambio si aparece).

Devuelve SOLO JSON válido con los campos:
{"fecha", "cuit", "numeroComprobante", "tipoComprobante", "razonSocial", "importe", "netoGravado", "impuestos", "moneda", "lineItems"}

NUNCA inventes datos: usa null o 0 para lo que no puedas leer.

Texto del documento:
{{DOCUMENT_TEXT}}`,

	ClaveResumenTarjeta: `Eres un EXPERTO en resúmenes de tarjeta de crédito argentinos (ICBC, BBVA, Visa, Mastercard).

Extrae la metadata del resumen y TODAS las filas de consumo.

Devuelve SOLO JSON válido:
{
  "metadata": {
    "periodo": "YYYYMM (del cierre actual)",
    "numeroTarjeta": "últimos 4 dígitos",
    "titularNombre": "nombre del titular",
    "fechaCierre": "YYYY-MM-DD",
    "fechaVencimiento": "YYYY-MM-DD"
  },
  "transacciones": [
    {"fecha": "YYYY-MM-DD", "descripcion": "...", "numeroCupon": "123456", "importe": 1234.56, "cuotas": "C.02/06", "moneda": "ARS"}
  ]
}

Los números argentinos usan coma decimal: "1.234,56" es 1234.56. NUNCA inventes filas.

Texto del documento:
{{DOCUMENT_TEXT}}`,
}
