package dsmr

// DSMR 4.0 example telegram.
const telegramV4 = "/ISk5\\2MT382-1000\r\n" +
	"\r\n" +
	"1-3:0.2.8(40)\r\n" +
	"0-0:1.0.0(101209113020W)\r\n" +
	"0-0:96.1.1(4B384547303034303436333935353037)\r\n" +
	"1-0:1.8.1(123456.789*kWh)\r\n" +
	"1-0:1.8.2(123456.789*kWh)\r\n" +
	"1-0:2.8.1(123456.789*kWh)\r\n" +
	"1-0:2.8.2(123456.789*kWh)\r\n" +
	"0-0:96.14.0(0002)\r\n" +
	"1-0:1.7.0(01.193*kW)\r\n" +
	"1-0:2.7.0(00.000*kW)\r\n" +
	"0-0:17.0.0(016.1*kW)\r\n" +
	"0-0:96.3.10(1)\r\n" +
	"0-0:96.7.21(00004)\r\n" +
	"0-0:96.7.9(00002)\r\n" +
	"1-0:99.97.0(2)(0-0:96.7.19)(101208152415W)(0000000240*s)(101208151004W)(0000000301*s)\r\n" +
	"1-0:32.32.0(00002)\r\n" +
	"1-0:52.32.0(00001)\r\n" +
	"1-0:72.32.0(00000)\r\n" +
	"1-0:32.36.0(00000)\r\n" +
	"1-0:52.36.0(00003)\r\n" +
	"1-0:72.36.0(00000)\r\n" +
	"0-0:96.13.1(3031203631203831)\r\n" +
	"0-0:96.13.0(303132333435363738393A3B3C3D3E3F)\r\n" +
	"0-1:24.1.0(03)\r\n" +
	"0-1:96.1.0(3232323241424344313233343536373839)\r\n" +
	"0-1:24.2.1(101209110000W)(12785.123*m3)\r\n" +
	"0-1:24.4.0(1)\r\n" +
	"!F46A\r\n"
