package catalog

// references lists the iCn3D Ig reference structures.
var references = Table{
	"ASF1A_2iijA_human":                           IgE,
	"B2Microglobulin_7phrL_human_C1":              IgC1,
	"BArrestin1_4jqiA_rat_n1":                     IgFN3Like,
	"BTLA_2aw2A_human_Iset":                       IgI,
	"C3_2qkiD_human_n1":                           IgFN3Like,
	"CD19_6al5A_human-n1":                         CD19,
	"CD28_1yjdC_human_V":                          IgV,
	"CD2_1hnfA_human_C2-n2":                       IgC2,
	"CD2_1hnfA_human_V-n1":                        IgV,
	"CD3d_6jxrd_human_C1":                         IgC1,
	"CD3e_6jxrf_human_C1":                         IgC1,
	"CD3g_6jxrg_human_C2":                         IgC2,
	"CD8a_1cd8A_human_V":                          IgV,
	"CoAtomerGamma1_1r4xA_human":                  IgE,
	"Contactin1_2ee2A_human_FN3-n9":               IgFN3,
	"Contactin1_3s97C_human_Iset-n2":              IgI,
	"CuZnSuperoxideDismutase_1hl5C_human":         SOD,
	"ECadherin_4zt1A_human_n2":                    Cadherin,
	"Endo-1,4-BetaXylanase10A_1i8aA_bacteria_n4":  IgE,
	"FAB-HEAVY_5esv_C1-n2":                        IgC1,
	"FAB-HEAVY_5esv_V-n1":                         IgV,
	"FAB-LIGHT_5esv_C1-n2":                        IgC1,
	"FAB-LIGHT_5esv_V-n1":                         IgV,
	"GHR_1axiB_human_C1-n1":                       IgC1,
	"ICOS_6x4gA_human_V":                          IgV,
	"IL6Rb_1bquB_human_FN3-n2":                    IgFN3,
	"IL6Rb_1bquB_human_FN3-n3":                    IgFN3,
	"InsulinR_8guyE_human_FN3-n1":                 IgFN3,
	"InsulinR_8guyE_human_FN3-n2":                 IgFN3,
	"IsdA_2iteA_bacteria":                         IgE,
	"JAM1_1nbqA_human_Iset-n2":                    IgI,
	"LAG3_7tzgD_human_C1-n2":                      IgC1,
	"LAG3_7tzgD_human_V-n1":                       IgV,
	"LaminAC_1ifrA_human":                         Lamin,
	"MHCIa_7phrH_human_C1":                        IgC1,
	"MPT63_1lmiA_bacteria":                        IgE,
	"NaCaExchanger_2fwuA_dog_n2":                  IgFN3Like,
	"NaKATPaseTransporterBeta_2zxeB_spurdogshark": IgE,
	"ORF7a_1xakA_virus":                           ORF,
	"PD1_4zqkB_human_V":                           IgV,
	"PDL1_4z18B_human_V-n1":                       IgV,
	"Palladin_2dm3A_human_Iset-n1":                IgI,
	"RBPJ_6py8C_human_Unk-n1":                     IgFN3Like,
	"RBPJ_6py8C_human_Unk-n2":                     IgFN3Like,
	"Sidekick2_1wf5A_human_FN3-n7":                IgFN3,
	"Siglec3_5j0bB_human_C1-n2":                   IgC1,
	"TCRa_6jxrm_human_C1-n2":                      IgC1,
	"TCRa_6jxrm_human_V-n1":                       IgV,
	"TEAD1_3kysC_human":                           IgE,
	"TP34_2o6cA_bacteria":                         IgE,
	"TP47_1o75A_bacteria":                         IgE,
	"Titin_4uowM_human_Iset-n152":                 IgI,
	"VISTA_6oilA_human_V":                         IgV,
	"VNAR_1t6vN_shark_V":                          IgV,
	"VTCN1_Q7Z7D3_human_C1-n2":                    IgC1,
}
